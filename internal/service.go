package internal

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/theplant/luhn"
	"go.uber.org/zap"

	"github.com/drycleanhub/ordermart/internal/model"
)

const (
	MaxOrderItems     = 50
	MaxNotesLength    = 1000
	MinCompletionDays = 1
	MaxCompletionDays = 30
)

type IService interface {
	Register(context.Context, string, string) (string, error)
	Login(context.Context, string, string) (string, error)
	GetJWTToken(string) (string, error)

	CreateOrder(context.Context, model.CreateOrderInput, string) (model.Order, error)
	GetServices(context.Context) ([]model.Service, error)
	GetOrders(context.Context, string) ([]model.Order, error)
	GetOrderByReceipt(context.Context, string) (model.Order, error)
	UpdateOrderStatus(context.Context, string, string) (model.Order, error)
	CancelOrder(context.Context, string, string) (model.Order, error)
	CompleteOrder(context.Context, string) (model.Order, error)
	AddPayment(context.Context, string, decimal.Decimal) (model.Order, error)
	UpdateItemStatus(context.Context, string, string) (model.Item, error)
}

type Service struct {
	Repository IRepository
	Pricing    IPricing
	secret     string
	logger     *zap.SugaredLogger
}

func NewService(repository IRepository, pricing IPricing, secret string, logger *zap.SugaredLogger) *Service {
	return &Service{Repository: repository, Pricing: pricing, secret: secret, logger: logger}
}

func (s Service) Register(ctx context.Context, login, password string) (string, error) {
	exist, err := s.Repository.IsOperatorExist(ctx, login)
	if err != nil {
		return "", err
	}

	if exist {
		return "", ErrLoginIsAlreadyTaken
	}

	h := GetHash(password)
	id, err := s.Repository.Register(ctx, login, h)
	if err != nil {
		return "", err
	}

	return s.GetJWTToken(strconv.Itoa(id))
}

func (s Service) Login(ctx context.Context, login, password string) (string, error) {
	h := GetHash(password)
	id, err := s.Repository.CheckCredentials(ctx, login, h)
	if err != nil {
		return "", err
	}

	return s.GetJWTToken(strconv.Itoa(id))
}

func (s Service) GetJWTToken(uid string) (string, error) {
	claims := jwt.MapClaims{
		"id":  uid,
		"exp": time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", err
	}

	return t, nil
}

// CreateOrder prices every item, aggregates the order total and persists the
// order in DRAFT. Order-level discount and expedite are recomputed once
// against the items subtotal, not summed from per-item effects, so each
// item request goes through the pipeline with those knobs held out.
func (s Service) CreateOrder(ctx context.Context, input model.CreateOrderInput, operatorID string) (model.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return model.Order{}, err
	}

	if input.DiscountType == model.DiscountEvercard && input.EvercardNumber != "" {
		card, err := strconv.Atoi(input.EvercardNumber)
		if err != nil || !luhn.Valid(card) {
			return model.Order{}, ErrLuhnInvalid
		}
	}

	now := time.Now()
	orderID := uuid.NewString()
	items := make([]model.Item, 0, len(input.Items))
	subtotal := decimal.Zero

	for _, in := range input.Items {
		res, err := s.Pricing.CalculatePrice(ctx, model.PriceCalculationRequest{
			ServiceID:     in.ServiceID,
			Quantity:      in.Quantity,
			UnitOfMeasure: in.UnitOfMeasure,
			ModifierIDs:   in.ModifierIDs,
			DiscountType:  model.DiscountNone,
			ExpediteType:  model.ExpediteStandard,
		})
		if err != nil {
			return model.Order{}, err
		}

		items = append(items, model.Item{
			ID:              uuid.NewString(),
			OrderID:         orderID,
			ServiceID:       in.ServiceID,
			Quantity:        in.Quantity,
			UnitOfMeasure:   in.UnitOfMeasure,
			BasePrice:       res.BasePrice,
			Modifiers:       res.Modifiers,
			TotalPrice:      res.TotalPrice,
			Characteristics: in.Characteristics,
			DefectsAndRisks: in.DefectsAndRisks,
			Status:          model.ItemStatusPending,
		})
		subtotal = model.Round2(subtotal.Add(res.TotalPrice))
	}

	discountAmount, err := CalculateDiscount(input.DiscountType, subtotal, input.DiscountValue)
	if err != nil {
		return model.Order{}, err
	}
	expediteFee, _ := ApplyExpedite(subtotal, input.ExpediteType)

	totalAmount := model.ClampMoney(subtotal.Sub(discountAmount).Add(expediteFee))

	if input.PaidAmount.IsNegative() {
		return model.Order{}, ErrInvalidPaymentAmount
	}
	if input.PaidAmount.GreaterThan(totalAmount) {
		return model.Order{}, ErrPaymentExceedsTotal
	}

	order := model.Order{
		ID:              orderID,
		ReceiptNumber:   GenerateReceiptNumber(),
		ClientID:        input.ClientID,
		BranchID:        input.BranchID,
		OperatorID:      operatorID,
		Status:          model.OrderStatusDraft,
		Items:           items,
		TotalAmount:     totalAmount,
		PaidAmount:      model.Round2(input.PaidAmount),
		RemainingAmount: model.Round2(totalAmount.Sub(input.PaidAmount)),
		DiscountType:    normalizeDiscountType(input.DiscountType),
		DiscountAmount:  discountAmount,
		ExpediteType:    normalizeExpediteType(input.ExpediteType),
		ExpediteFee:     expediteFee,
		PaymentMethod:   normalizePaymentMethod(input.PaymentMethod),
		CompletionDate:  input.CompletionDate,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.Repository.CreateOrder(ctx, order); err != nil {
		return model.Order{}, err
	}

	return order, nil
}

func (s Service) GetServices(ctx context.Context) ([]model.Service, error) {
	services, err := s.Repository.GetServices(ctx)
	if err != nil {
		return nil, err
	}

	if len(services) == 0 {
		return nil, ErrNoRecords
	}
	return services, nil
}

func (s Service) GetOrders(ctx context.Context, branchID string) ([]model.Order, error) {
	orders, err := s.Repository.GetOrders(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, ErrNoRecords
	}
	return orders, nil
}

func (s Service) GetOrderByReceipt(ctx context.Context, number string) (model.Order, error) {
	if !ValidReceiptNumber(number) {
		return model.Order{}, ErrNoRecords
	}
	return s.Repository.GetOrderByReceipt(ctx, number)
}

func (s Service) UpdateOrderStatus(ctx context.Context, id, target string) (model.Order, error) {
	order, err := s.Repository.GetOrderByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	if !CanUpdateOrderStatus(order.Status, target) {
		return model.Order{}, ErrInvalidStatusTransition
	}

	if err = s.Repository.UpdateOrderStatus(ctx, id, target); err != nil {
		return model.Order{}, err
	}

	order.Status = target
	return order, nil
}

func (s Service) CancelOrder(ctx context.Context, id, reason string) (model.Order, error) {
	order, err := s.Repository.GetOrderByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	if !CanCancelOrder(order.Status) {
		return model.Order{}, ErrInvalidStatusTransition
	}

	notes := "Order cancelled"
	if reason != "" {
		notes = "Cancelled: " + reason
	}
	if order.Notes != "" {
		notes = order.Notes + "\n" + notes
	}

	if err = s.Repository.CancelOrder(ctx, id, notes); err != nil {
		return model.Order{}, err
	}

	order.Status = model.OrderStatusCancelled
	order.Notes = notes
	return order, nil
}

func (s Service) CompleteOrder(ctx context.Context, id string) (model.Order, error) {
	return s.UpdateOrderStatus(ctx, id, model.OrderStatusCompleted)
}

// AddPayment validates the payment rules and recomputes paid/remaining as a
// pair; the repository writes them in one statement.
func (s Service) AddPayment(ctx context.Context, id string, amount decimal.Decimal) (model.Order, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, ErrInvalidPaymentAmount
	}

	order, err := s.Repository.GetOrderByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	newPaid := model.Round2(order.PaidAmount.Add(amount))
	if newPaid.GreaterThan(order.TotalAmount) {
		return model.Order{}, ErrPaymentExceedsTotal
	}
	remaining := model.Round2(order.TotalAmount.Sub(newPaid))

	if err = s.Repository.AddPayment(ctx, id, newPaid, remaining); err != nil {
		return model.Order{}, err
	}

	order.PaidAmount = newPaid
	order.RemainingAmount = remaining
	return order, nil
}

func (s Service) UpdateItemStatus(ctx context.Context, itemID, target string) (model.Item, error) {
	item, err := s.Repository.GetItemByID(ctx, itemID)
	if err != nil {
		return model.Item{}, err
	}

	if !CanUpdateItemStatus(item.Status, target) {
		return model.Item{}, ErrInvalidStatusTransition
	}

	if err = s.Repository.UpdateItemStatus(ctx, itemID, target); err != nil {
		return model.Item{}, err
	}

	item.Status = target
	return item, nil
}

func validateOrderInput(input model.CreateOrderInput) error {
	if input.ClientID == "" {
		return ErrClientRequired
	}
	if input.BranchID == "" {
		return ErrBranchRequired
	}
	if len(input.Items) == 0 {
		return ErrNoItems
	}
	if len(input.Items) > MaxOrderItems {
		return ErrTooManyItems
	}
	if len(input.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if input.CompletionDate != nil {
		days := int(math.Ceil(time.Until(*input.CompletionDate).Hours() / 24))
		if days < MinCompletionDays || days > MaxCompletionDays {
			return ErrInvalidCompletionDate
		}
	}
	return nil
}

func normalizeDiscountType(t string) string {
	if t == "" {
		return model.DiscountNone
	}
	return t
}

func normalizeExpediteType(t string) string {
	if t == "" {
		return model.ExpediteStandard
	}
	return t
}

func normalizePaymentMethod(m string) string {
	if m == "" {
		return model.PaymentMethodCash
	}
	return m
}

func GetHash(s string) string {
	h := sha256.New()
	ph := h.Sum([]byte(s))
	return base64.StdEncoding.EncodeToString(ph)
}
