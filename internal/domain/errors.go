package domain

import "errors"

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrUnsupportedAsset = errors.New("unsupported asset")
	ErrUnsupportedPair  = errors.New("unsupported pair")
)
