package internal

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/drycleanhub/ordermart/internal/model"
)

var discountRates = map[string]decimal.Decimal{
	model.DiscountEvercard: decimal.NewFromFloat(0.10),
	model.DiscountSocial:   decimal.NewFromFloat(0.05),
	model.DiscountMilitary: decimal.NewFromFloat(0.10),
}

// Discounts never apply to ironing, washing or textile dyeing. The set is
// data, not a compile-time switch, so callers can override it.
func DefaultExcludedCategories() map[string]struct{} {
	return map[string]struct{}{
		"IRONING": {},
		"WASHING": {},
		"DYEING":  {},
	}
}

// CalculateDiscount returns the discount amount for a single active discount.
// For OTHER the value is read as a fraction when it is <= 1 and as a percent
// out of 100 otherwise; the wizard shipped with that dual reading and callers
// depend on it, so it stays.
func CalculateDiscount(discountType string, amount decimal.Decimal, discountValue *decimal.Decimal) (decimal.Decimal, error) {
	if discountType == "" || discountType == model.DiscountNone {
		return decimal.Zero, nil
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}

	switch discountType {
	case model.DiscountEvercard, model.DiscountSocial, model.DiscountMilitary:
		return model.Round2(amount.Mul(discountRates[discountType])), nil
	case model.DiscountOther:
		if discountValue == nil {
			return decimal.Zero, nil
		}
		rate := *discountValue
		if rate.GreaterThan(one) {
			rate = rate.Div(hundred)
		}
		return model.Round2(amount.Mul(rate)), nil
	default:
		return decimal.Zero, ErrInvalidDiscountType
	}
}

// DiscountEligible is advisory: it reports whether any of the line categories
// falls into the excluded set. It never changes totals; omitting ineligible
// lines is the caller's job.
func DiscountEligible(categories []string, excluded map[string]struct{}) bool {
	for _, c := range categories {
		if _, ok := excluded[strings.ToUpper(strings.TrimSpace(c))]; ok {
			return false
		}
	}
	return true
}

// DiscountRate reports the display value of a discount as a percentage.
func DiscountRate(discountType string, discountValue *decimal.Decimal) decimal.Decimal {
	switch discountType {
	case model.DiscountEvercard, model.DiscountSocial, model.DiscountMilitary:
		return discountRates[discountType].Mul(hundred)
	case model.DiscountOther:
		if discountValue == nil {
			return decimal.Zero
		}
		if discountValue.LessThanOrEqual(one) {
			return discountValue.Mul(hundred)
		}
		return *discountValue
	default:
		return decimal.Zero
	}
}

func discountName(discountType string) string {
	switch discountType {
	case model.DiscountEvercard:
		return "Evercard discount"
	case model.DiscountSocial:
		return "Social media discount"
	case model.DiscountMilitary:
		return "Military discount"
	case model.DiscountOther:
		return "Custom discount"
	default:
		return "Discount"
	}
}
