package internal

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/drycleanhub/ordermart/internal/model"
)

type Handlers struct {
	Service IService
	Pricing IPricing
	secret  string
	logger  *zap.SugaredLogger
}

func NewHandlers(Service IService, Pricing IPricing, secret string, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, Pricing: Pricing, secret: secret, logger: logger}
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var i model.LoginInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on login request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	t, err := h.Service.Login(c.Context(), i.Login, i.Password)
	if err != nil {
		h.logger.Errorf("Error on login request: %s", err.Error())
		if errors.Is(err, ErrInvalidCredentials) {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	setAuthCookie(c, t)
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var i model.LoginInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on register request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	t, err := h.Service.Register(c.Context(), i.Login, i.Password)
	if err != nil {
		h.logger.Errorf("Error on register request: %s", err.Error())
		if errors.Is(err, ErrLoginIsAlreadyTaken) {
			return c.SendStatus(fiber.StatusConflict)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	setAuthCookie(c, t)
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	uid, err := h.getOperatorIDFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var input model.CreateOrderInput
	if err = c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Error on create order request", "data": "incorrect request format"})
	}

	order, err := h.Service.CreateOrder(c.Context(), input, uid)
	if err != nil {
		h.logger.Errorf("Error on create order request: %s", err.Error())
		switch {
		case isValidationErr(err):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Error on create order request", "data": err.Error()})
		case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrModifierNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Error on create order request", "data": err.Error()})
		case errors.Is(err, ErrPaymentExceedsTotal):
			return c.SendStatus(fiber.StatusPaymentRequired)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Error on create order request", "data": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *Handlers) GetServices(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	services, err := h.Service.GetServices(c.Context())
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(services)
}

func (h *Handlers) GetOrders(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	orders, err := h.Service.GetOrders(c.Context(), c.Query("branchId"))
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Error on list orders request", "data": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(orders)
}

func (h *Handlers) GetOrderByReceipt(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	order, err := h.Service.GetOrderByReceipt(c.Context(), c.Params("number"))
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) UpdateOrderStatus(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var i model.StatusInput
	if err := c.BodyParser(&i); err != nil || i.Status == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	order, err := h.Service.UpdateOrderStatus(c.Context(), c.Params("id"), i.Status)
	if err != nil {
		h.logger.Errorf("Error on order status request: %s", err.Error())
		if errors.Is(err, ErrInvalidStatusTransition) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Error on order status request", "data": err.Error()})
		}
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) CancelOrder(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var i model.CancelInput
	if err := c.BodyParser(&i); err != nil && len(c.Body()) > 0 {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	order, err := h.Service.CancelOrder(c.Context(), c.Params("id"), i.Reason)
	if err != nil {
		h.logger.Errorf("Error on cancel order request: %s", err.Error())
		if errors.Is(err, ErrInvalidStatusTransition) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Error on cancel order request", "data": err.Error()})
		}
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) AddPayment(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var i model.PaymentInput
	if err := c.BodyParser(&i); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Error on payment request", "data": err.Error()})
	}

	order, err := h.Service.AddPayment(c.Context(), c.Params("id"), i.Sum)
	if err != nil {
		h.logger.Errorf("Error on payment request: %s", err.Error())
		if errors.Is(err, ErrInvalidPaymentAmount) {
			return c.SendStatus(fiber.StatusUnprocessableEntity)
		}
		if errors.Is(err, ErrPaymentExceedsTotal) {
			return c.SendStatus(fiber.StatusPaymentRequired)
		}
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) UpdateItemStatus(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var i model.StatusInput
	if err := c.BodyParser(&i); err != nil || i.Status == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	item, err := h.Service.UpdateItemStatus(c.Context(), c.Params("id"), i.Status)
	if err != nil {
		h.logger.Errorf("Error on item status request: %s", err.Error())
		if errors.Is(err, ErrInvalidStatusTransition) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Error on item status request", "data": err.Error()})
		}
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

func (h *Handlers) CalculatePrice(c *fiber.Ctx) error {
	if _, err := h.getOperatorIDFromToken(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req model.PriceCalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Error on price request", "data": err.Error()})
	}

	res, err := h.Pricing.CalculatePrice(c.Context(), req)
	if err != nil {
		h.logger.Errorf("Error on price request: %s", err.Error())
		switch {
		case isValidationErr(err):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Error on price request", "data": err.Error()})
		case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrModifierNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Error on price request", "data": err.Error()})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func isValidationErr(err error) bool {
	for _, target := range []error{
		ErrServiceRequired, ErrInvalidQuantity, ErrQuantityOutOfRange,
		ErrTooManyModifiers, ErrInvalidCombination, ErrInvalidDiscountType,
		ErrInvalidAmount, ErrClientRequired, ErrBranchRequired, ErrNoItems,
		ErrTooManyItems, ErrInvalidCompletionDate, ErrNotesTooLong,
		ErrLuhnInvalid, ErrInvalidPaymentAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func setAuthCookie(c *fiber.Ctx, token string) {
	cookie := &fiber.Cookie{
		Name:    "token",
		Value:   token,
		Path:    "/",
		Expires: time.Now().Add(72 * time.Hour),
	}

	c.Cookie(cookie)
}

func (h *Handlers) getOperatorIDFromToken(c *fiber.Ctx) (string, error) {
	tokenString := c.Cookies("token")
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.secret), nil
	})
	if err != nil {
		return "", err
	}

	id, ok := claims["id"].(string)
	if !ok {
		return "", ErrInvalidCredentials
	}
	if _, err = strconv.Atoi(id); err != nil {
		return "", err
	}
	return id, nil
}
