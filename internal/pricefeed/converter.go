package pricefeed

import (
	"context"
	"fmt"
	"math/big"
)

const usdDecimals = 18

var ten = big.NewInt(10)

// GetPrice scales the rate's answer to 18 decimals
func GetPrice(rate Rate) (*big.Int, error) {
	if rate.Answer == nil || rate.Answer.Sign() <= 0 {
		return nil, ErrInvalidAnswer
	}
	price := new(big.Int).Set(rate.Answer)
	switch d := int64(rate.Decimals); {
	case d < usdDecimals:
		price.Mul(price, new(big.Int).Exp(ten, big.NewInt(usdDecimals-d), nil))
	case d > usdDecimals:
		price.Quo(price, new(big.Int).Exp(ten, big.NewInt(d-usdDecimals), nil))
	}
	return price, nil
}

// GetConversionRate values ethAmount (wei) in USD with 18 decimals
func GetConversionRate(ethAmount *big.Int, rate Rate) (*big.Int, error) {
	price, err := GetPrice(rate)
	if err != nil {
		return nil, err
	}
	usd := new(big.Int).Mul(price, ethAmount)
	return usd.Quo(usd, new(big.Int).Exp(ten, big.NewInt(usdDecimals), nil)), nil
}

// Convert reads the latest rate from ref and values ethAmount with it
func Convert(ctx context.Context, ref PriceReference, ethAmount *big.Int) (*big.Int, Rate, error) {
	rate, err := ref.LatestRate(ctx)
	if err != nil {
		return nil, Rate{}, fmt.Errorf("failed to read price feed: %w", err)
	}
	usd, err := GetConversionRate(ethAmount, rate)
	if err != nil {
		return nil, rate, err
	}
	return usd, rate, nil
}
