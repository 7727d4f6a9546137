package domain

type Asset string

const (
	AssetGold Asset = "GOLD"
	AssetUSD  Asset = "USD"
	AssetUSDC Asset = "USDC"
	AssetETH  Asset = "ETH"
)

var SupportedAsset = map[Asset]bool{
	AssetGold: true,
	AssetUSD:  true,
	AssetUSDC: true,
	AssetETH:  true,
}

func ValidateAsset(a Asset) bool {
	return SupportedAsset[a]
}

// ValidateSwapPair accepts two distinct supported assets where one side is
// the gold token. Swaps between two non-gold assets are not offered.
func ValidateSwapPair(input, output Asset) bool {
	if !SupportedAsset[input] || !SupportedAsset[output] {
		return false
	}
	if input == output {
		return false
	}
	return input == AssetGold || output == AssetGold
}
