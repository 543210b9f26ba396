package internal

import "github.com/drycleanhub/ordermart/internal/model"

var orderStatusTransitions = map[string][]string{
	model.OrderStatusDraft:      {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed:  {model.OrderStatusInProgress, model.OrderStatusCancelled},
	model.OrderStatusInProgress: {model.OrderStatusReady, model.OrderStatusCancelled},
	model.OrderStatusReady:      {model.OrderStatusCompleted},
	model.OrderStatusCompleted:  {},
	model.OrderStatusCancelled:  {},
}

// Items move strictly forward, one state at a time.
var itemStatusTransitions = map[string][]string{
	model.ItemStatusPending:   {model.ItemStatusInProcess},
	model.ItemStatusInProcess: {model.ItemStatusReady},
	model.ItemStatusReady:     {model.ItemStatusDelivered},
	model.ItemStatusDelivered: {},
}

var cancellableOrderStatuses = map[string]struct{}{
	model.OrderStatusDraft:      {},
	model.OrderStatusConfirmed:  {},
	model.OrderStatusInProgress: {},
}

func CanUpdateOrderStatus(current, target string) bool {
	return transitionAllowed(orderStatusTransitions, current, target)
}

func CanUpdateItemStatus(current, target string) bool {
	return transitionAllowed(itemStatusTransitions, current, target)
}

// CanCancelOrder layers the cancellation rule on top of the transition table:
// READY orders may only be completed, never cancelled.
func CanCancelOrder(status string) bool {
	_, ok := cancellableOrderStatuses[status]
	return ok
}

func AvailableOrderStatuses(current string) []string {
	return orderStatusTransitions[current]
}

func transitionAllowed(table map[string][]string, current, target string) bool {
	for _, allowed := range table[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
