package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/pkg/events"
	"isvaryam.com/storefront/pkg/gateway"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
	"isvaryam.com/storefront/pkg/notify"
)

// GatewayResult is a payment outcome ready to be recorded.
type GatewayResult struct {
	PaymentID string
	Method    string
	Status    string
}

// Confirmation is returned to the client after a payment is recorded.
type Confirmation struct {
	OrderID       string `json:"orderId"`
	PaymentID     string `json:"paymentId"`
	PaymentStatus string `json:"paymentStatus"`
}

type PaymentService struct {
	orders   OrderStore
	payments PaymentStore
	users    UserStore
	gateways gateway.Registry
	mailer   Mailer
	events   EventPublisher
	currency string
	now      func() time.Time
	run      runner
}

func NewPaymentService(orders OrderStore, payments PaymentStore, users UserStore, gateways gateway.Registry, mailer Mailer, publisher EventPublisher, currency string) *PaymentService {
	return &PaymentService{
		orders:   orders,
		payments: payments,
		users:    users,
		gateways: gateways,
		mailer:   mailer,
		events:   publisher,
		currency: currency,
		now:      time.Now,
		run:      detached,
	}
}

func (s *PaymentService) gateway(name string) (gateway.Gateway, error) {
	g, ok := s.gateways.Get(name)
	if !ok {
		return nil, global.Unavailable(fmt.Sprintf("Payment gateway %q is not configured", name))
	}
	return g, nil
}

// CreateIntent opens a payment with the gateway for one of the caller's NEW
// orders and remembers the gateway's order id so the callback can be matched.
func (s *PaymentService) CreateIntent(ctx context.Context, caller *models.User, gatewayName, orderID string) (*gateway.Intent, error) {
	g, err := s.gateway(gatewayName)
	if err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsAwaitingPayment() {
		return nil, global.Conflict("Order is not awaiting payment")
	}
	intent, err := g.CreateIntent(ctx, gateway.Order{
		ID:            order.ID.Hex(),
		Amount:        order.TotalPrice,
		Currency:      s.currency,
		CustomerID:    caller.ID.Hex(),
		CustomerName:  order.Name,
		CustomerEmail: caller.Email,
		CustomerPhone: caller.Phone,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.AddGatewayOrder(ctx, order.ID, models.GatewayRef{Gateway: g.Name(), OrderID: intent.OrderID}); err != nil {
		return nil, err
	}
	return intent, nil
}

// VerifyAndConfirm checks the gateway callback, then checks that the verified
// payment belongs to the order before touching it.
func (s *PaymentService) VerifyAndConfirm(ctx context.Context, caller *models.User, gatewayName, orderID string, cb gateway.Callback) (*Confirmation, error) {
	g, err := s.gateway(gatewayName)
	if err != nil {
		return nil, err
	}
	if cb == nil {
		cb = gateway.Callback{}
	}
	if cb["order_id"] == "" && orderID != "" {
		cb["order_id"] = orderID
	}
	result, err := g.VerifyCallback(ctx, cb)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		orderID = result.ReferenceID
	}
	order, err := s.resolveOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBinding(order, g, result); err != nil {
		return nil, err
	}
	return s.confirmOrder(ctx, order, GatewayResult{
		PaymentID: result.PaymentID,
		Method:    g.Name(),
		Status:    result.Status,
	})
}

// checkBinding rejects a verified payment that was made for another order or
// for a different amount.
func (s *PaymentService) checkBinding(order *models.Order, g gateway.Gateway, res *gateway.Result) error {
	mismatch := global.BadRequest("Payment does not belong to this order").WithField("orderId", "payment_mismatch")
	if res.ReferenceID != "" {
		if res.ReferenceID != order.ID.Hex() {
			log.Warn().Str("orderId", order.ID.Hex()).Str("reference", res.ReferenceID).Str("paymentId", res.PaymentID).Msg("gateway payment references another order")
			return mismatch
		}
	} else if !order.HasGatewayOrder(g.Name(), res.GatewayOrderID) {
		log.Warn().Str("orderId", order.ID.Hex()).Str("gatewayOrderId", res.GatewayOrderID).Str("paymentId", res.PaymentID).Msg("gateway order was not opened for this order")
		return mismatch
	}

	if res.Amount > 0 {
		want, currency := gateway.ExpectedCharge(g, order.TotalPrice, s.currency)
		if res.Amount != want || (res.Currency != "" && !strings.EqualFold(res.Currency, currency)) {
			log.Warn().Str("orderId", order.ID.Hex()).Str("paymentId", res.PaymentID).
				Int64("paid", res.Amount).Int64("expected", want).Msg("gateway amount does not match order total")
			return global.BadRequest("Paid amount does not match the order total").WithField("amount", "amount_mismatch")
		}
	}
	return nil
}

// ManualPay records a payment reported directly by the client. Methods that
// name a configured gateway are verified with it; for anything else only an
// admin can record a completed payment.
func (s *PaymentService) ManualPay(ctx context.Context, caller *models.User, req *models.PayRequest) (*Confirmation, error) {
	if g, ok := s.gateways.Get(req.Method); ok {
		order, err := s.resolveOrder(ctx, caller, req.OrderID)
		if err != nil {
			return nil, err
		}
		result, err := g.VerifyCallback(ctx, gateway.Callback{
			"payment_id": req.PaymentID,
			"order_id":   order.ID.Hex(),
		})
		if err != nil {
			return nil, err
		}
		if err := s.checkBinding(order, g, result); err != nil {
			return nil, err
		}
		return s.confirmOrder(ctx, order, GatewayResult{PaymentID: result.PaymentID, Method: g.Name(), Status: result.Status})
	}

	status := models.NormalizePaymentStatus(req.Status)
	if status == "" {
		status = models.PaymentStatusPending
	}
	if !models.IsValidPaymentStatus(status) {
		return nil, global.BadRequest("Invalid payment status").WithField("status", "invalid_status")
	}
	if status == models.PaymentStatusCompleted && !caller.IsAdmin {
		status = models.PaymentStatusPending
	}
	return s.Confirm(ctx, caller, req.OrderID, GatewayResult{PaymentID: req.PaymentID, Method: req.Method, Status: status})
}

// Confirm records res against the order and, for completed payments, moves
// the order from NEW to PAYED. Repeating a confirmation is a no-op.
func (s *PaymentService) Confirm(ctx context.Context, caller *models.User, orderID string, res GatewayResult) (*Confirmation, error) {
	if err := normalizeResult(&res); err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	return s.confirmOrder(ctx, order, res)
}

func normalizeResult(res *GatewayResult) error {
	res.Status = models.NormalizePaymentStatus(res.Status)
	if !models.IsValidPaymentStatus(res.Status) {
		return global.BadRequest("Invalid payment status").WithField("status", "invalid_status")
	}
	if strings.TrimSpace(res.PaymentID) == "" {
		return global.BadRequest("Payment id is required").WithField("paymentId", "required")
	}
	return nil
}

// confirmOrder stores the payment before looking at the order's state, so a
// payment the gateway has already taken is never dropped.
func (s *PaymentService) confirmOrder(ctx context.Context, order *models.Order, res GatewayResult) (*Confirmation, error) {
	if err := normalizeResult(&res); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Order:     order.ID,
		User:      order.User,
		PaymentID: res.PaymentID,
		Method:    res.Method,
		Amount:    order.TotalPrice,
		Currency:  s.currency,
		Status:    res.Status,
		PaidAt:    s.now(),
	}
	payment.SetTimestamps()
	if err := s.payments.Create(ctx, payment); err != nil {
		if global.IsConflict(err) {
			return s.reconcile(ctx, order, res)
		}
		return nil, err
	}

	if !order.IsAwaitingPayment() {
		log.Warn().Str("orderId", order.ID.Hex()).Str("paymentId", res.PaymentID).Str("status", payment.Status).
			Str("orderStatus", order.Status).Msg("payment recorded for an order that is not awaiting payment")
		return nil, global.Conflict("Order is not awaiting payment")
	}
	if payment.IsCompleted() {
		if err := s.settle(ctx, order, payment); err != nil {
			return nil, err
		}
	}
	return confirmationFor(order, payment), nil
}

// reconcile handles a gateway payment id that is already stored. A repeat is
// answered from the stored payment; a payment that has since completed is
// upgraded and settles the order.
func (s *PaymentService) reconcile(ctx context.Context, order *models.Order, res GatewayResult) (*Confirmation, error) {
	existing, err := s.payments.FindByGatewayID(ctx, res.Method, res.PaymentID)
	if err != nil {
		if global.IsNotFound(err) {
			return nil, global.Conflict("Order is not awaiting payment")
		}
		return nil, err
	}
	if existing.Order != order.ID {
		return nil, global.Conflict("Payment already recorded for another order")
	}

	if existing.Status != res.Status && !existing.IsCompleted() {
		existing, err = s.payments.UpdateStatus(ctx, existing.ID, res.Status)
		if err != nil {
			return nil, err
		}
	}
	if existing.IsCompleted() {
		switch {
		case order.IsAwaitingPayment():
			if err := s.settle(ctx, order, existing); err != nil {
				return nil, err
			}
		case order.IsPaid() && order.PaymentID == existing.PaymentID:
			// already settled by this payment
		default:
			log.Warn().Str("orderId", order.ID.Hex()).Str("paymentId", existing.PaymentID).
				Str("orderStatus", order.Status).Msg("completed payment recorded for an order that is not awaiting payment")
			return nil, global.Conflict("Order is not awaiting payment")
		}
	}
	return confirmationFor(order, existing), nil
}

// settle flips a NEW order to PAYED for a completed payment.
func (s *PaymentService) settle(ctx context.Context, order *models.Order, payment *models.Payment) error {
	paid, err := s.orders.MarkPaid(ctx, order.ID, payment.PaymentID)
	if err != nil {
		log.Warn().Err(err).Str("orderId", order.ID.Hex()).Str("paymentId", payment.PaymentID).
			Msg("completed payment recorded but the order was not marked paid")
		return err
	}
	s.afterPaid(paid)
	return nil
}

func confirmationFor(order *models.Order, payment *models.Payment) *Confirmation {
	return &Confirmation{
		OrderID:       order.ID.Hex(),
		PaymentID:     payment.ID.Hex(),
		PaymentStatus: payment.Status,
	}
}

// resolveOrder finds the explicit order, or the caller's latest NEW order when
// orderID is empty.
func (s *PaymentService) resolveOrder(ctx context.Context, caller *models.User, orderID string) (*models.Order, error) {
	var (
		order *models.Order
		err   error
	)
	if strings.TrimSpace(orderID) == "" {
		order, err = s.orders.LatestByStatus(ctx, caller.ID, models.OrderStatusNew)
	} else {
		oid, perr := parseID(orderID, "Invalid order id")
		if perr != nil {
			return nil, perr
		}
		order, err = s.orders.GetByID(ctx, oid)
	}
	if err != nil {
		if global.IsNotFound(err) {
			return nil, global.NotFound("Order Not Found!")
		}
		return nil, err
	}
	if !caller.IsAdmin && !order.IsOwnedBy(caller.ID) {
		return nil, global.Unauthorized("You are not authorized to pay for this order")
	}
	return order, nil
}

// UpdatePaymentStatus is the admin override. Completing a payment also marks
// its order PAYED unless it already is.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	oid, err := parseID(id, "Invalid payment id")
	if err != nil {
		return nil, err
	}
	status = models.NormalizePaymentStatus(status)
	if !models.IsValidPaymentStatus(status) {
		return nil, global.BadRequest("Invalid payment status").WithField("status", "invalid_status")
	}

	payment, err := s.payments.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	var order *models.Order
	if status == models.PaymentStatusCompleted {
		if order, err = s.orders.GetByID(ctx, payment.Order); err != nil {
			return nil, err
		}
	}

	updated, err := s.payments.UpdateStatus(ctx, oid, status)
	if err != nil {
		return nil, err
	}
	if order != nil && !order.IsPaid() {
		paid, err := s.orders.SettlePaid(ctx, order.ID, updated.PaymentID)
		switch {
		case err == nil:
			s.afterPaid(paid)
		case global.IsConflict(err):
			// paid concurrently
		default:
			return nil, err
		}
	}
	return updated, nil
}

// afterPaid sends the receipt and the paid event; failures are only logged.
func (s *PaymentService) afterPaid(order *models.Order) {
	snapshot := *order
	s.run(func(ctx context.Context) {
		orderID := snapshot.ID.Hex()
		if s.events != nil {
			if err := s.events.Publish(ctx, events.OrderPaid, orderID, snapshot); err != nil {
				log.Warn().Err(err).Str("orderId", orderID).Msg("failed to publish order paid event")
			}
		}
		if s.mailer == nil {
			return
		}
		user, err := s.users.GetByID(ctx, snapshot.User)
		if err != nil {
			log.Warn().Err(err).Str("orderId", orderID).Msg("receipt skipped, order owner not found")
			return
		}
		msg, err := notify.ReceiptMessage(&snapshot, user.Email)
		if err == nil {
			err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			log.Warn().Err(err).Str("orderId", orderID).Msg("failed to send receipt")
		}
	})
}
