package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricingRuleApply(t *testing.T) {
	tests := []struct {
		name string
		rule PricingRule
		cost float64
		want float64
	}{
		{
			name: "margin only",
			rule: PricingRule{MarginPercent: 50},
			cost: 10.00,
			want: 15.00,
		},
		{
			name: "rounds up to increment",
			rule: PricingRule{MarginPercent: 30, RoundTo: 0.5},
			cost: 9.37,
			want: 12.50,
		},
		{
			name: "rounding never goes down",
			rule: PricingRule{MarginPercent: 30, RoundTo: 1},
			cost: 10.10,
			want: 14.00,
		},
		{
			name: "exact multiple stays put",
			rule: PricingRule{MarginPercent: 0, RoundTo: 0.5},
			cost: 12.50,
			want: 12.50,
		},
		{
			name: "zero increment skips rounding",
			rule: PricingRule{MarginPercent: 25},
			cost: 7.99,
			want: 9.9875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.rule.Apply(tt.cost), 1e-9)
		})
	}
}
