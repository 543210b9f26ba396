package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusDraft      = "DRAFT"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusReady      = "READY"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

const (
	ItemStatusPending   = "PENDING"
	ItemStatusInProcess = "IN_PROCESS"
	ItemStatusReady     = "READY"
	ItemStatusDelivered = "DELIVERED"
)

const (
	PaymentMethodCash         = "CASH"
	PaymentMethodTerminal     = "TERMINAL"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// RemainingAmount is always TotalAmount minus PaidAmount; both columns are
// written in the same statement so the invariant survives concurrent payments.
type Order struct {
	ID              string          `json:"id"`
	ReceiptNumber   string          `json:"receiptNumber"`
	ClientID        string          `json:"clientId"`
	BranchID        string          `json:"branchId"`
	OperatorID      string          `json:"operatorId"`
	Status          string          `json:"status"`
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	DiscountType    string          `json:"discountType"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	ExpediteType    string          `json:"expediteType"`
	ExpediteFee     decimal.Decimal `json:"expediteFee"`
	PaymentMethod   string          `json:"paymentMethod"`
	CompletionDate  *time.Time      `json:"completionDate,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type Item struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"orderId"`
	ServiceID       string          `json:"serviceId"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitOfMeasure   string          `json:"unitOfMeasure"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	Modifiers       []Modifier      `json:"modifiers"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Characteristics string          `json:"characteristics,omitempty"`
	DefectsAndRisks string          `json:"defectsAndRisks,omitempty"`
	Status          string          `json:"status"`
}

type CreateItemInput struct {
	ServiceID       string          `json:"serviceId"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitOfMeasure   string          `json:"unitOfMeasure,omitempty"`
	ModifierIDs     []string        `json:"modifierIds"`
	Characteristics string          `json:"characteristics,omitempty"`
	DefectsAndRisks string          `json:"defectsAndRisks,omitempty"`
}

type CreateOrderInput struct {
	ClientID       string            `json:"clientId"`
	BranchID       string            `json:"branchId"`
	Items          []CreateItemInput `json:"items"`
	DiscountType   string            `json:"discountType,omitempty"`
	DiscountValue  *decimal.Decimal  `json:"discountValue,omitempty"`
	EvercardNumber string            `json:"evercardNumber,omitempty"`
	ExpediteType   string            `json:"expediteType,omitempty"`
	PaidAmount     decimal.Decimal   `json:"paidAmount"`
	PaymentMethod  string            `json:"paymentMethod,omitempty"`
	CompletionDate *time.Time        `json:"completionDate,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

type PaymentInput struct {
	Sum decimal.Decimal `json:"sum"`
}

type StatusInput struct {
	Status string `json:"status"`
}

type CancelInput struct {
	Reason string `json:"reason,omitempty"`
}

type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
