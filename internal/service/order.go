package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/pkg/events"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type OrderService struct {
	orders    OrderStore
	products  ProductStore
	charges   DeliveryChargeStore
	coupons   *CouponService
	events    EventPublisher
	homeState string
	run       runner
}

func NewOrderService(orders OrderStore, products ProductStore, charges DeliveryChargeStore, coupons *CouponService, publisher EventPublisher, homeState string) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		charges:   charges,
		coupons:   coupons,
		events:    publisher,
		homeState: homeState,
		run:       detached,
	}
}

// Create validates the submitted lines against the catalog, prices the order
// on the server and stores it as NEW.
func (s *OrderService) Create(ctx context.Context, caller *models.User, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, global.BadRequest("Cart Is Empty!").WithField("items", "empty")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if strings.TrimSpace(line.Product) == "" {
			continue
		}
		item, err := s.validateLine(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, global.BadRequest("No valid products in cart!").WithField("items", "no_valid_products")
	}

	charge, err := s.DeliveryCharge(ctx, req.State)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Name:           req.Name,
		Address:        req.Address,
		State:          req.State,
		AddressLatLng:  req.AddressLatLng,
		Items:          items,
		DeliveryCharge: charge,
		Status:         models.OrderStatusNew,
		User:           caller.ID,
	}
	order.CalculateTotals(0)

	if code := strings.TrimSpace(req.CouponCode); code != "" {
		eval, err := s.coupons.Evaluate(ctx, code, order.Subtotal, caller.ID)
		if err != nil {
			return nil, err
		}
		order.CouponCode = eval.Coupon.CouponCode
		order.CalculateTotals(eval.Coupon.OfferPercentage)
	}

	order.SetTimestamps()
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publish(events.OrderCreated, order)
	return order, nil
}

func (s *OrderService) validateLine(ctx context.Context, line models.OrderItemRequest) (models.OrderItem, error) {
	invalid := global.BadRequest("Invalid product in cart!").WithField("items", "invalid_product")

	productID, err := parseID(line.Product, "Invalid product in cart!")
	if err != nil {
		return models.OrderItem{}, invalid
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if global.IsNotFound(err) {
			return models.OrderItem{}, invalid
		}
		return models.OrderItem{}, err
	}

	price, ok := product.PriceForSize(line.Size)
	if !ok {
		return models.OrderItem{}, global.BadRequest("Invalid size for product!").WithField("items", "invalid_size")
	}
	if line.Price != price {
		return models.OrderItem{}, global.BadRequest("Price mismatch!").WithField("items", "price_mismatch")
	}
	if line.Quantity < 1 {
		return models.OrderItem{}, global.BadRequest("Invalid quantity for product!").WithField("items", "invalid_quantity")
	}
	return models.OrderItem{Product: productID, Size: line.Size, Price: price, Quantity: line.Quantity}, nil
}

// DeliveryCharge is zero inside the home state and for unknown routes.
func (s *OrderService) DeliveryCharge(ctx context.Context, state string) (float64, error) {
	state = strings.TrimSpace(state)
	if state == "" || strings.EqualFold(state, s.homeState) {
		return 0, nil
	}
	charge, err := s.charges.Find(ctx, s.homeState, state)
	if err != nil {
		if global.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return charge.Charge, nil
}

func (s *OrderService) ListDeliveryCharges(ctx context.Context) ([]models.DeliveryCharge, error) {
	return s.charges.List(ctx)
}

func (s *OrderService) SetDeliveryCharge(ctx context.Context, charge *models.DeliveryCharge) (*models.DeliveryCharge, error) {
	return s.charges.Upsert(ctx, charge)
}

// List scopes non-admin callers to their own orders whatever the filter says.
func (s *OrderService) List(ctx context.Context, caller *models.User, filter models.OrderFilter) ([]models.Order, error) {
	if !caller.IsAdmin {
		self := caller.ID
		filter.User = &self
	}
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, global.BadRequest("Invalid order status").WithField("status", "invalid_status")
	}
	return s.orders.List(ctx, filter)
}

// Get returns an order visible to caller: their own, or any for admins.
func (s *OrderService) Get(ctx context.Context, caller *models.User, id string) (*models.Order, error) {
	oid, err := parseID(id, "Invalid order id")
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, oid)
	if err != nil {
		if global.IsNotFound(err) {
			return nil, global.NotFound("Order Not Found!")
		}
		return nil, err
	}
	if !caller.IsAdmin && !order.IsOwnedBy(caller.ID) {
		return nil, global.Unauthorized("You are not authorized to access this order")
	}
	return order, nil
}

func (s *OrderService) CurrentNew(ctx context.Context, caller *models.User) (*models.Order, error) {
	order, err := s.orders.LatestByStatus(ctx, caller.ID, models.OrderStatusNew)
	if global.IsNotFound(err) {
		return nil, global.NotFound("Order Not Found!")
	}
	return order, err
}

func (s *OrderService) PurchaseCount(ctx context.Context, caller *models.User) (int64, error) {
	return s.orders.CountByStatus(ctx, caller.ID, models.OrderStatusPayed)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	oid, err := parseID(id, "Invalid order id")
	if err != nil {
		return nil, err
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if !models.IsValidOrderStatus(status) {
		return nil, global.BadRequest("Invalid order status").WithField("status", "invalid_status")
	}
	order, err := s.orders.UpdateStatus(ctx, oid, status)
	if err != nil {
		return nil, err
	}
	s.publish(events.OrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "Invalid order id")
	if err != nil {
		return err
	}
	return s.orders.Delete(ctx, oid)
}

func (s *OrderService) publish(event string, order *models.Order) {
	if s.events == nil {
		return
	}
	snapshot := *order
	s.run(func(ctx context.Context) {
		if err := s.events.Publish(ctx, event, snapshot.ID.Hex(), snapshot); err != nil {
			log.Warn().Err(err).Str("orderId", snapshot.ID.Hex()).Msg("failed to publish order event")
		}
	})
}
