package test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/drycleanhub/ordermart/internal"
	"github.com/drycleanhub/ordermart/internal/model"
)

var _ = Describe("Status transitions", func() {
	Context("Orders", func() {
		It("Allows the forward path", func() {
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusDraft, model.OrderStatusConfirmed)).To(BeTrue())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusConfirmed, model.OrderStatusInProgress)).To(BeTrue())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusInProgress, model.OrderStatusReady)).To(BeTrue())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusReady, model.OrderStatusCompleted)).To(BeTrue())
		})
		It("Allows cancellation until work is done", func() {
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusDraft, model.OrderStatusCancelled)).To(BeTrue())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusConfirmed, model.OrderStatusCancelled)).To(BeTrue())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusInProgress, model.OrderStatusCancelled)).To(BeTrue())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusReady, model.OrderStatusCancelled)).To(BeFalse())
		})
		It("Rejects skipping states", func() {
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusDraft, model.OrderStatusInProgress)).To(BeFalse())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusDraft, model.OrderStatusReady)).To(BeFalse())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusDraft, model.OrderStatusCompleted)).To(BeFalse())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusConfirmed, model.OrderStatusCompleted)).To(BeFalse())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusInProgress, model.OrderStatusCompleted)).To(BeFalse())
		})
		It("Rejects moving backwards", func() {
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusConfirmed, model.OrderStatusDraft)).To(BeFalse())
			Expect(internal.CanUpdateOrderStatus(model.OrderStatusReady, model.OrderStatusInProgress)).To(BeFalse())
		})
		It("Terminal states accept nothing", func() {
			for _, target := range []string{
				model.OrderStatusDraft, model.OrderStatusConfirmed, model.OrderStatusInProgress,
				model.OrderStatusReady, model.OrderStatusCompleted, model.OrderStatusCancelled,
			} {
				Expect(internal.CanUpdateOrderStatus(model.OrderStatusCompleted, target)).To(BeFalse())
				Expect(internal.CanUpdateOrderStatus(model.OrderStatusCancelled, target)).To(BeFalse())
			}
		})
		It("Unknown status has no transitions", func() {
			Expect(internal.CanUpdateOrderStatus("ARCHIVED", model.OrderStatusDraft)).To(BeFalse())
			Expect(internal.AvailableOrderStatuses("ARCHIVED")).To(BeEmpty())
		})
		It("Cancellable set matches the transition table", func() {
			Expect(internal.CanCancelOrder(model.OrderStatusDraft)).To(BeTrue())
			Expect(internal.CanCancelOrder(model.OrderStatusConfirmed)).To(BeTrue())
			Expect(internal.CanCancelOrder(model.OrderStatusInProgress)).To(BeTrue())
			Expect(internal.CanCancelOrder(model.OrderStatusReady)).To(BeFalse())
			Expect(internal.CanCancelOrder(model.OrderStatusCompleted)).To(BeFalse())
			Expect(internal.CanCancelOrder(model.OrderStatusCancelled)).To(BeFalse())
		})
	})
	Context("Items", func() {
		It("Moves strictly forward one state at a time", func() {
			Expect(internal.CanUpdateItemStatus(model.ItemStatusPending, model.ItemStatusInProcess)).To(BeTrue())
			Expect(internal.CanUpdateItemStatus(model.ItemStatusInProcess, model.ItemStatusReady)).To(BeTrue())
			Expect(internal.CanUpdateItemStatus(model.ItemStatusReady, model.ItemStatusDelivered)).To(BeTrue())
		})
		It("Rejects skips and reversals", func() {
			Expect(internal.CanUpdateItemStatus(model.ItemStatusPending, model.ItemStatusReady)).To(BeFalse())
			Expect(internal.CanUpdateItemStatus(model.ItemStatusPending, model.ItemStatusDelivered)).To(BeFalse())
			Expect(internal.CanUpdateItemStatus(model.ItemStatusReady, model.ItemStatusPending)).To(BeFalse())
			Expect(internal.CanUpdateItemStatus(model.ItemStatusDelivered, model.ItemStatusReady)).To(BeFalse())
		})
	})
})

var _ = Describe("Receipt numbers", func() {
	It("Generates the fixed format", func() {
		for i := 0; i < 20; i++ {
			n := internal.GenerateReceiptNumber()
			Expect(internal.ValidReceiptNumber(n)).To(BeTrue(), n)
		}
	})
	It("Rejects malformed numbers", func() {
		for _, n := range []string{"", "RC123ABC", "RC12345ABC", "rc1234abc", "RC1234AB1", "XX1234ABC"} {
			Expect(internal.ValidReceiptNumber(n)).To(BeFalse(), n)
		}
	})
})
