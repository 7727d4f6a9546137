package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAsset(t *testing.T) {
	t.Parallel()
	require.True(t, ValidateAsset(AssetGold))
	require.True(t, ValidateAsset(AssetUSDC))
	require.False(t, ValidateAsset("DOGE"))
	require.False(t, ValidateAsset(""))
}

func TestValidateSwapPair(t *testing.T) {
	t.Parallel()
	require.True(t, ValidateSwapPair(AssetGold, AssetUSDC))
	require.True(t, ValidateSwapPair(AssetETH, AssetGold))
	require.False(t, ValidateSwapPair(AssetGold, AssetGold))
	require.False(t, ValidateSwapPair(AssetUSDC, AssetETH))
	require.False(t, ValidateSwapPair(AssetGold, "DOGE"))
}
