package service

import (
	"math"

	"webnovel/internal/domain"
)

// Coin grant tiers. Each breakpoint grants a flat amount better than the
// linear rate, checked from the highest threshold down.
const (
	tier1USD, tier1Coins = 9.99, 1000
	tier2USD, tier2Coins = 29.99, 3000
	tier3USD, tier3Coins = 49.99, 5100
	tier4USD, tier4Coins = 99.99, 11000

	// CoinsPerUSD is the base rate below the first tier.
	CoinsPerUSD = 100
)

// CoinsForUSD converts a captured USD amount into a coin grant. Non-positive
// or NaN input yields 0: not a sale, not an error.
func CoinsForUSD(amountUSD float64) int64 {
	if math.IsNaN(amountUSD) || amountUSD <= 0 {
		return 0
	}

	switch {
	case amountUSD >= tier4USD:
		return tier4Coins
	case amountUSD >= tier3USD:
		return tier3Coins
	case amountUSD >= tier2USD:
		return tier2Coins
	case amountUSD >= tier1USD:
		return tier1Coins
	}

	return int64(math.Floor(amountUSD * CoinsPerUSD))
}

// CoinPackages returns the purchasable bundles shown on the top-up page.
func CoinPackages() []domain.CoinPackage {
	return []domain.CoinPackage{
		{PriceUSD: tier1USD, Coins: tier1Coins},
		{PriceUSD: tier2USD, Coins: tier2Coins},
		{PriceUSD: tier3USD, Coins: tier3Coins},
		{PriceUSD: tier4USD, Coins: tier4Coins},
	}
}
