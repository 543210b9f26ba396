package internal

import (
	"github.com/shopspring/decimal"

	"github.com/drycleanhub/ordermart/internal/model"
)

var expediteMultipliers = map[string]decimal.Decimal{
	model.ExpediteStandard:  decimal.NewFromInt(1),
	model.ExpediteExpress48: decimal.NewFromFloat(1.5),
	model.ExpediteExpress24: decimal.NewFromInt(2),
}

// ExpediteMultiplier treats anything it does not recognise as STANDARD.
func ExpediteMultiplier(tier string) decimal.Decimal {
	if m, ok := expediteMultipliers[tier]; ok {
		return m
	}
	return one
}

// ApplyExpedite returns the surcharge and the final price for the tier,
// both computed against the pre-expedite subtotal.
func ApplyExpedite(subtotal decimal.Decimal, tier string) (fee, final decimal.Decimal) {
	m := ExpediteMultiplier(tier)
	fee = model.Round2(subtotal.Mul(m.Sub(one)))
	final = model.Round2(subtotal.Mul(m))
	return fee, final
}
