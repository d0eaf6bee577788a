package e2e

import (
	"context"
	"testing"

	"github.com/themizzi/storecheck/internal/config"
)

// TestCartTotal tests the cart total
// Feature: Cart total
//
//	As a customer
//	I want the cart total to add up
//	So that I pay the sum of the prices I was shown
func TestCartTotal(t *testing.T) {
	tests := []struct {
		name    string
		country string
	}{
		{name: "euro store", country: "ro"},
		{name: "dollar store", country: "us"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := newRunner().Run(context.Background(), []config.Scenario{
				{Name: tt.name, Kind: config.KindCart, Country: tt.country, Items: config.DefaultItems, ResolveCookies: true},
			})

			if !report.OK() {
				for _, res := range report.Results {
					t.Errorf("Cart %s: %v", res.Status, res.Err)
				}
			}
		})
	}
}
