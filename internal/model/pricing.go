package model

import "github.com/shopspring/decimal"

const (
	ModifierPercentage = "PERCENTAGE"
	ModifierFixed      = "FIXED"
	ModifierMultiplier = "MULTIPLIER"
)

const (
	DiscountNone     = "NONE"
	DiscountEvercard = "EVERCARD"
	DiscountSocial   = "SOCIAL"
	DiscountMilitary = "MILITARY"
	DiscountOther    = "OTHER"
)

const (
	ExpediteStandard  = "STANDARD"
	ExpediteExpress48 = "EXPRESS_48H"
	ExpediteExpress24 = "EXPRESS_24H"
)

const (
	OperationAdd      = "ADD"
	OperationSubtract = "SUBTRACT"
	OperationMultiply = "MULTIPLY"
	OperationDivide   = "DIVIDE"
)

type Service struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
}

// AppliedAmount is the running total after the modifier, not the delta.
type Modifier struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Value         decimal.Decimal `json:"value"`
	Category      string          `json:"category,omitempty"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
}

type Discount struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Value         decimal.Decimal `json:"value"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	Conditions    []string        `json:"conditions,omitempty"`
}

type CalculationStep struct {
	StepNumber   int             `json:"stepNumber"`
	Description  string          `json:"description"`
	Operation    string          `json:"operation"`
	Value        decimal.Decimal `json:"value"`
	RunningTotal decimal.Decimal `json:"runningTotal"`
}

type PriceCalculationRequest struct {
	ServiceID     string           `json:"serviceId"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitOfMeasure string           `json:"unitOfMeasure,omitempty"`
	ModifierIDs   []string         `json:"modifierIds"`
	DiscountType  string           `json:"discountType,omitempty"`
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	ExpediteType  string           `json:"expediteType,omitempty"`
}

// PriceCalculationResult is owned by the invocation that produced it and is
// never mutated in place; recalculation always returns a fresh value.
// BasePrice is the unit price multiplied by quantity.
type PriceCalculationResult struct {
	Request    PriceCalculationRequest `json:"request"`
	UnitPrice  decimal.Decimal         `json:"unitPrice"`
	BasePrice  decimal.Decimal         `json:"basePrice"`
	Modifiers  []Modifier              `json:"modifiers"`
	Discounts  []Discount              `json:"discounts"`
	TotalPrice decimal.Decimal         `json:"totalPrice"`
	Breakdown  []CalculationStep       `json:"breakdown"`
}
