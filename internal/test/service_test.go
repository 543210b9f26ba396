package test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/drycleanhub/ordermart/internal"
	mock_internal "github.com/drycleanhub/ordermart/internal/mock"
	"github.com/drycleanhub/ordermart/internal/model"
)

var _ = Describe("Service", func() {
	var (
		srv internal.IService
		rep *mock_internal.MockIRepository
	)
	BeforeEach(func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		rep = mock_internal.NewMockIRepository(ctrl)
		pricing := internal.NewPricingService(rep, nil, logger.Sugar())

		srv = internal.NewService(rep, pricing, "secret", logger.Sugar())
	})
	Context("Operators", func() {
		It("Login without error", func() {
			ctx := context.Background()
			l, p := "login", "pass"
			h := internal.GetHash(p)

			rep.EXPECT().CheckCredentials(ctx, l, h).Return(1, nil)

			_, err := srv.Login(ctx, l, p)
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("Login with error", func() {
			ctx := context.Background()
			l, p := "login", "pass"
			h := internal.GetHash(p)

			rep.EXPECT().CheckCredentials(ctx, l, h).Return(0, internal.ErrInvalidCredentials)

			_, err := srv.Login(ctx, l, p)
			Expect(err).Should(HaveOccurred())
		})
		It("Register without error", func() {
			ctx := context.Background()
			l, p := "login", "pass"
			h := internal.GetHash(p)

			rep.EXPECT().IsOperatorExist(ctx, l).Return(false, nil)
			rep.EXPECT().Register(ctx, l, h)

			_, err := srv.Register(ctx, l, p)
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("Register with error already registered", func() {
			ctx := context.Background()
			l, p := "login", "pass"

			rep.EXPECT().IsOperatorExist(ctx, l).Return(true, nil)

			_, err := srv.Register(ctx, l, p)
			Expect(err).Should(HaveOccurred())
			Expect(err).Should(Equal(internal.ErrLoginIsAlreadyTaken))
		})
	})
	Context("Order creation", func() {
		It("Aggregates item totals with order-level discount and expedite", func() {
			ctx := context.Background()

			rep.EXPECT().GetBasePrice(ctx, "svc-coat-clean").Return(decimal.NewFromInt(100), nil)
			rep.EXPECT().GetBasePrice(ctx, "svc-shirt-iron").Return(decimal.NewFromInt(50), nil)
			rep.EXPECT().CreateOrder(ctx, gomock.Any()).Return(nil)

			order, err := srv.CreateOrder(ctx, model.CreateOrderInput{
				ClientID: "client-1",
				BranchID: "branch-1",
				Items: []model.CreateItemInput{
					{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)},
					{ServiceID: "svc-shirt-iron", Quantity: decimal.NewFromInt(2)},
				},
				DiscountType:   model.DiscountEvercard,
				EvercardNumber: "79927398713",
				ExpediteType:   model.ExpediteExpress48,
				PaidAmount:     decimal.NewFromInt(100),
				PaymentMethod:  model.PaymentMethodCash,
			}, "7")
			Expect(err).ShouldNot(HaveOccurred())

			Expect(order.Status).To(Equal(model.OrderStatusDraft))
			Expect(order.OperatorID).To(Equal("7"))
			Expect(internal.ValidReceiptNumber(order.ReceiptNumber)).To(BeTrue())

			Expect(order.Items).To(HaveLen(2))
			Expect(order.Items[0].TotalPrice.StringFixed(2)).To(Equal("100.00"))
			Expect(order.Items[1].TotalPrice.StringFixed(2)).To(Equal("100.00"))
			Expect(order.Items[0].Status).To(Equal(model.ItemStatusPending))
			Expect(order.Items[1].Status).To(Equal(model.ItemStatusPending))

			Expect(order.DiscountAmount.StringFixed(2)).To(Equal("20.00"))
			Expect(order.ExpediteFee.StringFixed(2)).To(Equal("100.00"))
			Expect(order.TotalAmount.StringFixed(2)).To(Equal("280.00"))
			Expect(order.PaidAmount.StringFixed(2)).To(Equal("100.00"))
			Expect(order.RemainingAmount.StringFixed(2)).To(Equal("180.00"))
		})
		It("Rejects a missing client", func() {
			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				BranchID: "branch-1",
				Items:    []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
			}, "7")
			Expect(err).Should(Equal(internal.ErrClientRequired))
		})
		It("Rejects a missing branch", func() {
			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID: "client-1",
				Items:    []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
			}, "7")
			Expect(err).Should(Equal(internal.ErrBranchRequired))
		})
		It("Rejects an empty item list", func() {
			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID: "client-1",
				BranchID: "branch-1",
			}, "7")
			Expect(err).Should(Equal(internal.ErrNoItems))
		})
		It("Rejects too many items", func() {
			items := make([]model.CreateItemInput, internal.MaxOrderItems+1)
			for i := range items {
				items[i] = model.CreateItemInput{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}
			}

			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID: "client-1",
				BranchID: "branch-1",
				Items:    items,
			}, "7")
			Expect(err).Should(Equal(internal.ErrTooManyItems))
		})
		It("Rejects a completion date out of range", func() {
			far := time.Now().AddDate(0, 0, 60)

			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID:       "client-1",
				BranchID:       "branch-1",
				Items:          []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
				CompletionDate: &far,
			}, "7")
			Expect(err).Should(Equal(internal.ErrInvalidCompletionDate))
		})
		It("Rejects a completion date already passed", func() {
			yesterday := time.Now().AddDate(0, 0, -1)

			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID:       "client-1",
				BranchID:       "branch-1",
				Items:          []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
				CompletionDate: &yesterday,
			}, "7")
			Expect(err).Should(Equal(internal.ErrInvalidCompletionDate))
		})
		It("Rejects overlong notes", func() {
			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID: "client-1",
				BranchID: "branch-1",
				Items:    []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
				Notes:    strings.Repeat("x", internal.MaxNotesLength+1),
			}, "7")
			Expect(err).Should(Equal(internal.ErrNotesTooLong))
		})
		It("Rejects a negative prepayment", func() {
			ctx := context.Background()

			rep.EXPECT().GetBasePrice(ctx, "svc-coat-clean").Return(decimal.NewFromInt(100), nil)

			_, err := srv.CreateOrder(ctx, model.CreateOrderInput{
				ClientID:   "client-1",
				BranchID:   "branch-1",
				Items:      []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
				PaidAmount: decimal.NewFromInt(-50),
			}, "7")
			Expect(err).Should(Equal(internal.ErrInvalidPaymentAmount))
		})
		It("Rejects an invalid Evercard number", func() {
			_, err := srv.CreateOrder(context.Background(), model.CreateOrderInput{
				ClientID:       "client-1",
				BranchID:       "branch-1",
				Items:          []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
				DiscountType:   model.DiscountEvercard,
				EvercardNumber: "1234",
			}, "7")
			Expect(err).Should(Equal(internal.ErrLuhnInvalid))
		})
		It("Rejects a prepayment above the total", func() {
			ctx := context.Background()

			rep.EXPECT().GetBasePrice(ctx, "svc-coat-clean").Return(decimal.NewFromInt(100), nil)

			_, err := srv.CreateOrder(ctx, model.CreateOrderInput{
				ClientID:   "client-1",
				BranchID:   "branch-1",
				Items:      []model.CreateItemInput{{ServiceID: "svc-coat-clean", Quantity: decimal.NewFromInt(1)}},
				PaidAmount: decimal.NewFromInt(150),
			}, "7")
			Expect(err).Should(Equal(internal.ErrPaymentExceedsTotal))
		})
	})
	Context("Payments", func() {
		It("Adds a payment and keeps remaining consistent", func() {
			ctx := context.Background()
			order := model.Order{
				ID:              "order-1",
				Status:          model.OrderStatusConfirmed,
				TotalAmount:     decimal.NewFromInt(500),
				PaidAmount:      decimal.NewFromInt(100),
				RemainingAmount: decimal.NewFromInt(400),
			}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)
			rep.EXPECT().AddPayment(ctx, order.ID,
				model.Round2(decimal.NewFromInt(300)), model.Round2(decimal.NewFromInt(200))).Return(nil)

			updated, err := srv.AddPayment(ctx, order.ID, decimal.NewFromInt(200))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(updated.PaidAmount.StringFixed(2)).To(Equal("300.00"))
			Expect(updated.RemainingAmount.StringFixed(2)).To(Equal("200.00"))
		})
		It("Rejects a payment above the remaining total", func() {
			ctx := context.Background()
			order := model.Order{
				ID:          "order-1",
				Status:      model.OrderStatusConfirmed,
				TotalAmount: decimal.NewFromInt(500),
				PaidAmount:  decimal.Zero,
			}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)

			_, err := srv.AddPayment(ctx, order.ID, decimal.NewFromInt(600))
			Expect(err).Should(Equal(internal.ErrPaymentExceedsTotal))
		})
		It("Rejects a non-positive payment", func() {
			_, err := srv.AddPayment(context.Background(), "order-1", decimal.Zero)
			Expect(err).Should(Equal(internal.ErrInvalidPaymentAmount))
		})
	})
	Context("Lifecycle", func() {
		It("Confirms a draft order", func() {
			ctx := context.Background()
			order := model.Order{ID: "order-1", Status: model.OrderStatusDraft}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)
			rep.EXPECT().UpdateOrderStatus(ctx, order.ID, model.OrderStatusConfirmed).Return(nil)

			updated, err := srv.UpdateOrderStatus(ctx, order.ID, model.OrderStatusConfirmed)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(updated.Status).To(Equal(model.OrderStatusConfirmed))
		})
		It("Rejects skipping item states", func() {
			ctx := context.Background()
			item := model.Item{ID: "item-1", Status: model.ItemStatusPending}

			rep.EXPECT().GetItemByID(ctx, item.ID).Return(item, nil)

			_, err := srv.UpdateItemStatus(ctx, item.ID, model.ItemStatusReady)
			Expect(err).Should(Equal(internal.ErrInvalidStatusTransition))
		})
		It("Rejects transitions out of a cancelled order", func() {
			ctx := context.Background()
			order := model.Order{ID: "order-1", Status: model.OrderStatusCancelled}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)

			_, err := srv.UpdateOrderStatus(ctx, order.ID, model.OrderStatusConfirmed)
			Expect(err).Should(Equal(internal.ErrInvalidStatusTransition))
		})
		It("Cancels an order in progress with a reason", func() {
			ctx := context.Background()
			order := model.Order{ID: "order-1", Status: model.OrderStatusInProgress}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)
			rep.EXPECT().CancelOrder(ctx, order.ID, "Cancelled: client request").Return(nil)

			updated, err := srv.CancelOrder(ctx, order.ID, "client request")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(updated.Status).To(Equal(model.OrderStatusCancelled))
		})
		It("Rejects cancelling a ready order", func() {
			ctx := context.Background()
			order := model.Order{ID: "order-1", Status: model.OrderStatusReady}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)

			_, err := srv.CancelOrder(ctx, order.ID, "changed my mind")
			Expect(err).Should(Equal(internal.ErrInvalidStatusTransition))
		})
		It("Completes a ready order", func() {
			ctx := context.Background()
			order := model.Order{ID: "order-1", Status: model.OrderStatusReady}

			rep.EXPECT().GetOrderByID(ctx, order.ID).Return(order, nil)
			rep.EXPECT().UpdateOrderStatus(ctx, order.ID, model.OrderStatusCompleted).Return(nil)

			updated, err := srv.CompleteOrder(ctx, order.ID)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(updated.Status).To(Equal(model.OrderStatusCompleted))
		})
	})
	Context("Lookups", func() {
		It("GetServices without error", func() {
			ctx := context.Background()
			catalog := []model.Service{{ID: "svc-coat-clean", Name: "Coat cleaning", Category: "DRY_CLEANING"}}

			rep.EXPECT().GetServices(ctx).Return(catalog, nil)

			services, err := srv.GetServices(ctx)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(services).To(HaveLen(1))
		})
		It("GetServices with no records", func() {
			ctx := context.Background()

			rep.EXPECT().GetServices(ctx).Return(nil, nil)

			_, err := srv.GetServices(ctx)
			Expect(err).Should(Equal(internal.ErrNoRecords))
		})
		It("GetOrders without error", func() {
			ctx := context.Background()
			o := make([]model.Order, 1)

			rep.EXPECT().GetOrders(ctx, "branch-1").Return(o, nil)

			_, err := srv.GetOrders(ctx, "branch-1")
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("GetOrders with no records", func() {
			ctx := context.Background()
			o := make([]model.Order, 0)

			rep.EXPECT().GetOrders(ctx, "").Return(o, nil)

			_, err := srv.GetOrders(ctx, "")
			Expect(err).Should(HaveOccurred())
			Expect(err).Should(Equal(internal.ErrNoRecords))
		})
		It("GetOrders with error", func() {
			ctx := context.Background()
			e := errors.New("some error")

			rep.EXPECT().GetOrders(ctx, "").Return(nil, e)

			_, err := srv.GetOrders(ctx, "")
			Expect(err).Should(Equal(e))
		})
		It("Receipt lookup rejects malformed numbers without a query", func() {
			_, err := srv.GetOrderByReceipt(context.Background(), "not-a-receipt")
			Expect(err).Should(Equal(internal.ErrNoRecords))
		})
		It("Receipt lookup fetches a valid number", func() {
			ctx := context.Background()
			number := "RC1234ABC"

			rep.EXPECT().GetOrderByReceipt(ctx, number).Return(model.Order{ReceiptNumber: number}, nil)

			order, err := srv.GetOrderByReceipt(ctx, number)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(order.ReceiptNumber).To(Equal(number))
		})
	})
})
