package service

import (
	"math"
	"testing"
)

func TestCoinsForUSD_Tiers(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{9.99, 1000},
		{29.99, 3000},
		{49.99, 5100},
		{99.99, 11000},
		{15, 1500},
		{0, 0},
		{-5, 0},
		{0.5, 50},
		{9.98, 998},
		{10.50, 1000},
		{49.98, 3000},
		{150, 11000},
	}

	for _, tc := range cases {
		if got := CoinsForUSD(tc.amount); got != tc.want {
			t.Errorf("CoinsForUSD(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestCoinsForUSD_NaN(t *testing.T) {
	if got := CoinsForUSD(math.NaN()); got != 0 {
		t.Errorf("CoinsForUSD(NaN) = %d, want 0", got)
	}
}

func TestCoinPackages_MatchConversion(t *testing.T) {
	for _, p := range CoinPackages() {
		if got := CoinsForUSD(p.PriceUSD); got != p.Coins {
			t.Errorf("package %v grants %d coins, converter says %d", p.PriceUSD, p.Coins, got)
		}
	}
}
