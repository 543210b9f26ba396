package internal

import (
	"github.com/shopspring/decimal"

	"github.com/drycleanhub/ordermart/internal/model"
)

const MaxModifiers = 20

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ValidateModifierIDs rejects duplicate ids and over-limit lists before the
// catalog is ever consulted.
func ValidateModifierIDs(ids []string) error {
	if len(ids) > MaxModifiers {
		return ErrTooManyModifiers
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return ErrInvalidCombination
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ApplyModifiers runs the modifiers sequentially against the running total in
// the order supplied by the caller. Every step is rounded to two decimals
// before the next modifier sees it; the compounding rounding is deliberate.
// Each returned modifier carries AppliedAmount = the running total after it.
func ApplyModifiers(base decimal.Decimal, modifiers []model.Modifier) (decimal.Decimal, []model.Modifier, error) {
	if len(modifiers) > MaxModifiers {
		return decimal.Zero, nil, ErrTooManyModifiers
	}

	seen := make(map[string]struct{}, len(modifiers))
	current := model.ClampMoney(base)
	applied := make([]model.Modifier, 0, len(modifiers))

	for _, m := range modifiers {
		if _, ok := seen[m.ID]; ok {
			return decimal.Zero, nil, ErrInvalidCombination
		}
		seen[m.ID] = struct{}{}

		switch m.Kind {
		case model.ModifierPercentage:
			current = current.Mul(one.Add(m.Value.Div(hundred)))
		case model.ModifierFixed:
			current = current.Add(m.Value)
		case model.ModifierMultiplier:
			current = current.Mul(m.Value)
		default:
			return decimal.Zero, nil, ErrInvalidCombination
		}

		current = model.ClampMoney(current)
		m.AppliedAmount = current
		applied = append(applied, m)
	}

	return current, applied, nil
}
