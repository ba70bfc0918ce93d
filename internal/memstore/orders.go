package memstore

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

// Orders keeps insertion order so equal timestamps still sort newest first.
type Orders struct {
	mu     sync.Mutex
	orders []*models.Order
}

func NewOrders() *Orders {
	return &Orders{}
}

func (s *Orders) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = bson.NewObjectID()
	}
	stored := *order
	s.orders = append(s.orders, &stored)
	return nil
}

func (s *Orders) find(id bson.ObjectID) *models.Order {
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Orders) GetByID(_ context.Context, id bson.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, global.NotFound("Order Not Found!")
	}
	out := *o
	return &out, nil
}

// newestFirst returns matching orders sorted by createdAt desc, later inserts first on ties.
func (s *Orders) newestFirst(match func(*models.Order) bool) []models.Order {
	out := []models.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if match(s.orders[i]) {
			out = append(out, *s.orders[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Orders) LatestByStatus(_ context.Context, userID bson.ObjectID, status string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := s.newestFirst(func(o *models.Order) bool { return o.User == userID && o.Status == status })
	if len(matches) == 0 {
		return nil, global.NotFound("Order Not Found!")
	}
	return &matches[0], nil
}

func (s *Orders) List(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newestFirst(func(o *models.Order) bool {
		if filter.User != nil && o.User != *filter.User {
			return false
		}
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		if filter.From != nil && o.CreatedAt.Before(*filter.From) {
			return false
		}
		if filter.To != nil && o.CreatedAt.After(*filter.To) {
			return false
		}
		return true
	}), nil
}

func (s *Orders) CountByStatus(_ context.Context, userID bson.ObjectID, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.orders {
		if o.User == userID && o.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *Orders) MarkPaid(_ context.Context, id bson.ObjectID, paymentID string) (*models.Order, error) {
	return s.pay(id, paymentID, func(o *models.Order) error {
		if o.Status != models.OrderStatusNew {
			return global.Conflict("Order is not awaiting payment")
		}
		return nil
	})
}

func (s *Orders) SettlePaid(_ context.Context, id bson.ObjectID, paymentID string) (*models.Order, error) {
	return s.pay(id, paymentID, func(o *models.Order) error {
		if o.Status == models.OrderStatusPayed {
			return global.Conflict("Order is already paid")
		}
		return nil
	})
}

func (s *Orders) pay(id bson.ObjectID, paymentID string, allowed func(*models.Order) error) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, global.NotFound("Order Not Found!")
	}
	if err := allowed(o); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatusPayed
	o.PaymentID = paymentID
	o.SetTimestamps()
	out := *o
	return &out, nil
}

func (s *Orders) AddGatewayOrder(_ context.Context, id bson.ObjectID, ref models.GatewayRef) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, global.NotFound("Order Not Found!")
	}
	if o.Status != models.OrderStatusNew {
		return nil, global.Conflict("Order is not awaiting payment")
	}
	if !o.HasGatewayOrder(ref.Gateway, ref.OrderID) {
		o.GatewayOrders = append(o.GatewayOrders, ref)
	}
	o.SetTimestamps()
	out := *o
	out.GatewayOrders = append([]models.GatewayRef(nil), o.GatewayOrders...)
	return &out, nil
}

// Count is the number of stored orders.
func (s *Orders) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *Orders) UpdateStatus(_ context.Context, id bson.ObjectID, status string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, global.NotFound("Order Not Found!")
	}
	o.Status = status
	o.SetTimestamps()
	out := *o
	return &out, nil
}

func (s *Orders) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return global.NotFound("Order Not Found!")
}

// RevenueTrend and TopProducts mirror the analytics aggregations.
func (s *Orders) RevenueTrend(_ context.Context) ([]models.RevenuePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay := map[string]*models.RevenuePoint{}
	for _, o := range s.orders {
		if o.Status == models.OrderStatusNew {
			continue
		}
		day := o.CreatedAt.UTC().Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &models.RevenuePoint{Date: day}
			byDay[day] = p
		}
		p.TotalRevenue += o.TotalPrice
		p.Count++
	}
	out := make([]models.RevenuePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Orders) TopProducts(_ context.Context, limit int64) ([]models.TopProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sold := map[bson.ObjectID]int64{}
	for _, o := range s.orders {
		for _, item := range o.Items {
			sold[item.Product] += int64(item.Quantity)
		}
	}
	out := make([]models.TopProduct, 0, len(sold))
	for id, n := range sold {
		out = append(out, models.TopProduct{ProductID: id, TotalSold: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSold > out[j].TotalSold })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type Payments struct {
	mu       sync.Mutex
	payments []*models.Payment
}

func NewPayments() *Payments {
	return &Payments{}
}

func (s *Payments) Create(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.Method == payment.Method && p.PaymentID == payment.PaymentID {
			return global.Conflict("duplicate payment")
		}
	}
	if payment.ID.IsZero() {
		payment.ID = bson.NewObjectID()
	}
	stored := *payment
	s.payments = append(s.payments, &stored)
	return nil
}

func (s *Payments) GetByID(_ context.Context, id bson.ObjectID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			out := *p
			return &out, nil
		}
	}
	return nil, global.NotFound("Payment not found")
}

func (s *Payments) FindByGatewayID(_ context.Context, method, paymentID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.Method == method && p.PaymentID == paymentID {
			out := *p
			return &out, nil
		}
	}
	return nil, global.NotFound("Payment not found")
}

func (s *Payments) UpdateStatus(_ context.Context, id bson.ObjectID, status string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			p.Status = status
			p.SetTimestamps()
			out := *p
			return &out, nil
		}
	}
	return nil, global.NotFound("Payment not found")
}

// Count is used by tests to assert no duplicate payments were written.
func (s *Payments) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

type DeliveryCharges struct {
	mu      sync.Mutex
	charges []models.DeliveryCharge
}

func NewDeliveryCharges(charges ...models.DeliveryCharge) *DeliveryCharges {
	return &DeliveryCharges{charges: charges}
}

func (s *DeliveryCharges) Find(_ context.Context, fromState, toState string) (*models.DeliveryCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.charges {
		if c.FromState == fromState && c.ToState == toState {
			out := c
			return &out, nil
		}
	}
	return nil, global.NotFound("Delivery charge not found")
}

func (s *DeliveryCharges) List(_ context.Context) ([]models.DeliveryCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DeliveryCharge{}, s.charges...), nil
}

func (s *DeliveryCharges) Upsert(_ context.Context, charge *models.DeliveryCharge) (*models.DeliveryCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.charges {
		if c.FromState == charge.FromState && c.ToState == charge.ToState {
			s.charges[i].Charge = charge.Charge
			out := s.charges[i]
			return &out, nil
		}
	}
	stored := *charge
	stored.ID = bson.NewObjectID()
	s.charges = append(s.charges, stored)
	return &stored, nil
}

type Coupons struct {
	mu      sync.Mutex
	coupons []models.Coupon
}

func NewCoupons(coupons ...models.Coupon) *Coupons {
	s := &Coupons{}
	for _, c := range coupons {
		c := c
		_ = s.Create(context.Background(), &c)
	}
	return s
}

func (s *Coupons) List(_ context.Context) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Coupon{}, s.coupons...), nil
}

func (s *Coupons) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if c.CouponCode == code {
			out := c
			return &out, nil
		}
	}
	return nil, global.NotFound("Coupon not found")
}

func (s *Coupons) Create(_ context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if c.CouponCode == coupon.CouponCode {
			return global.Conflict("duplicate couponCode")
		}
	}
	if coupon.ID.IsZero() {
		coupon.ID = bson.NewObjectID()
	}
	s.coupons = append(s.coupons, *coupon)
	return nil
}

func (s *Coupons) Update(_ context.Context, id bson.ObjectID, coupon *models.Coupon) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.coupons {
		if c.ID == id {
			updated := *coupon
			updated.ID = id
			updated.CreatedAt = c.CreatedAt
			s.coupons[i] = updated
			return &updated, nil
		}
	}
	return nil, global.NotFound("Coupon not found")
}

func (s *Coupons) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.coupons {
		if c.ID == id {
			s.coupons = append(s.coupons[:i], s.coupons[i+1:]...)
			return nil
		}
	}
	return global.NotFound("Coupon not found")
}
