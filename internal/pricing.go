package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drycleanhub/ordermart/internal/model"
)

var (
	minQuantity = decimal.NewFromFloat(0.01)
	maxQuantity = decimal.NewFromInt(1000)
)

// ICatalog is the price-list collaborator: base unit prices and the modifier
// catalog live outside the engine.
type ICatalog interface {
	GetBasePrice(context.Context, string) (decimal.Decimal, error)
	GetModifiersByIDs(context.Context, []string) ([]model.Modifier, error)
}

type IPricing interface {
	CalculatePrice(context.Context, model.PriceCalculationRequest) (model.PriceCalculationResult, error)
	RecalculateWithModifiers(context.Context, model.PriceCalculationResult, []string) (model.PriceCalculationResult, error)
	ApplyDiscount(context.Context, model.PriceCalculationResult, string, *decimal.Decimal) (model.PriceCalculationResult, error)
}

// PricingService runs the fixed pipeline: base price, quantity, modifiers,
// discount, expedite. The order is load-bearing; discounts see the
// post-modifier subtotal and the expedite surcharge sees the post-discount
// subtotal.
type PricingService struct {
	catalog  ICatalog
	excluded map[string]struct{}
	logger   *zap.SugaredLogger
}

func NewPricingService(catalog ICatalog, excluded map[string]struct{}, logger *zap.SugaredLogger) *PricingService {
	if excluded == nil {
		excluded = DefaultExcludedCategories()
	}
	return &PricingService{catalog: catalog, excluded: excluded, logger: logger}
}

func (s *PricingService) CalculatePrice(ctx context.Context, req model.PriceCalculationRequest) (model.PriceCalculationResult, error) {
	req = normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		return model.PriceCalculationResult{}, err
	}

	unit, err := s.catalog.GetBasePrice(ctx, req.ServiceID)
	if err != nil {
		return model.PriceCalculationResult{}, err
	}

	modifiers, err := s.resolveModifiers(ctx, req.ModifierIDs)
	if err != nil {
		return model.PriceCalculationResult{}, err
	}

	return s.compute(unit, req, modifiers)
}

// RecalculateWithModifiers reruns the pipeline from the modifier stage against
// the previously resolved base; the discount and expedite stages are replayed
// with the prior request's settings so the breakdown matches a full run.
func (s *PricingService) RecalculateWithModifiers(ctx context.Context, prior model.PriceCalculationResult, modifierIDs []string) (model.PriceCalculationResult, error) {
	req := prior.Request
	req.ModifierIDs = modifierIDs

	if err := ValidateModifierIDs(modifierIDs); err != nil {
		return model.PriceCalculationResult{}, err
	}
	modifiers, err := s.resolveModifiers(ctx, modifierIDs)
	if err != nil {
		return model.PriceCalculationResult{}, err
	}

	return s.compute(prior.UnitPrice, req, modifiers)
}

// ApplyDiscount reruns the pipeline from the discount stage; the prior
// modifier resolution is reused untouched.
func (s *PricingService) ApplyDiscount(ctx context.Context, prior model.PriceCalculationResult, discountType string, discountValue *decimal.Decimal) (model.PriceCalculationResult, error) {
	req := prior.Request
	req.DiscountType = discountType
	req.DiscountValue = discountValue

	return s.compute(prior.UnitPrice, normalizeRequest(req), prior.Modifiers)
}

// DiscountEligibleForCategories exposes the advisory eligibility check with
// the service's configured exclusion set.
func (s *PricingService) DiscountEligibleForCategories(categories []string) bool {
	return DiscountEligible(categories, s.excluded)
}

func (s *PricingService) resolveModifiers(ctx context.Context, ids []string) ([]model.Modifier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	modifiers, err := s.catalog.GetModifiersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(modifiers) != len(ids) {
		return nil, ErrModifierNotFound
	}
	return modifiers, nil
}

func (s *PricingService) compute(unit decimal.Decimal, req model.PriceCalculationRequest, modifiers []model.Modifier) (model.PriceCalculationResult, error) {
	unit = model.Round2(unit)

	steps := make([]model.CalculationStep, 0, len(modifiers)+4)
	stepNumber := 1

	lineBase := unit
	steps = append(steps, model.CalculationStep{
		StepNumber:   stepNumber,
		Description:  "Base service price",
		Operation:    model.OperationAdd,
		Value:        unit,
		RunningTotal: lineBase,
	})
	stepNumber++

	if !req.Quantity.Equal(one) {
		lineBase = model.Round2(unit.Mul(req.Quantity))
		steps = append(steps, model.CalculationStep{
			StepNumber:   stepNumber,
			Description:  fmt.Sprintf("Quantity x%s", req.Quantity.String()),
			Operation:    model.OperationMultiply,
			Value:        req.Quantity,
			RunningTotal: lineBase,
		})
		stepNumber++
	}

	current, applied, err := ApplyModifiers(lineBase, modifiers)
	if err != nil {
		return model.PriceCalculationResult{}, err
	}
	previous := lineBase
	for _, m := range applied {
		steps = append(steps, model.CalculationStep{
			StepNumber:   stepNumber,
			Description:  fmt.Sprintf("Modifier: %s", m.Name),
			Operation:    model.OperationAdd,
			Value:        m.AppliedAmount.Sub(previous),
			RunningTotal: m.AppliedAmount,
		})
		stepNumber++
		previous = m.AppliedAmount
	}

	discountAmount, err := CalculateDiscount(req.DiscountType, current, req.DiscountValue)
	if err != nil {
		return model.PriceCalculationResult{}, err
	}

	var discounts []model.Discount
	subtotal := current
	if req.DiscountType != model.DiscountNone {
		if discountAmount.GreaterThan(current) && s.logger != nil {
			s.logger.Warnf("discount %s exceeds subtotal, clamping: %s > %s", req.DiscountType, discountAmount, current)
		}
		subtotal = model.ClampMoney(current.Sub(discountAmount))
		d := model.Discount{
			ID:            "discount-" + strings.ToLower(req.DiscountType),
			Name:          discountName(req.DiscountType),
			Kind:          model.ModifierPercentage,
			Value:         DiscountRate(req.DiscountType, req.DiscountValue),
			AppliedAmount: discountAmount,
		}
		discounts = append(discounts, d)
		steps = append(steps, model.CalculationStep{
			StepNumber:   stepNumber,
			Description:  fmt.Sprintf("Discount: %s", d.Name),
			Operation:    model.OperationSubtract,
			Value:        discountAmount,
			RunningTotal: subtotal,
		})
		stepNumber++
	}

	fee, total := ApplyExpedite(subtotal, req.ExpediteType)
	if fee.GreaterThan(decimal.Zero) {
		steps = append(steps, model.CalculationStep{
			StepNumber:   stepNumber,
			Description:  "Expedite surcharge",
			Operation:    model.OperationAdd,
			Value:        fee,
			RunningTotal: total,
		})
	}

	return model.PriceCalculationResult{
		Request:    req,
		UnitPrice:  unit,
		BasePrice:  lineBase,
		Modifiers:  applied,
		Discounts:  discounts,
		TotalPrice: total,
		Breakdown:  steps,
	}, nil
}

func normalizeRequest(req model.PriceCalculationRequest) model.PriceCalculationRequest {
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	if req.DiscountType == "" {
		req.DiscountType = model.DiscountNone
	}
	if req.ExpediteType == "" {
		req.ExpediteType = model.ExpediteStandard
	}
	return req
}

func validateRequest(req model.PriceCalculationRequest) error {
	if req.ServiceID == "" {
		return ErrServiceRequired
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if req.Quantity.LessThan(minQuantity) || req.Quantity.GreaterThan(maxQuantity) {
		return ErrQuantityOutOfRange
	}
	return ValidateModifierIDs(req.ModifierIDs)
}
