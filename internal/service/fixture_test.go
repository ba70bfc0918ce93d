package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/internal/memstore"
	"isvaryam.com/storefront/pkg/gateway"
	"isvaryam.com/storefront/pkg/models"
)

const razorpaySecret = "rzp_secret"

type fixture struct {
	products *memstore.Products
	cache    *memstore.Cache
	carts    *memstore.Carts
	orders   *memstore.Orders
	payments *memstore.Payments
	charges  *memstore.DeliveryCharges
	coupons  *memstore.Coupons
	reviews  *memstore.Reviews
	users    *memstore.Users
	otpStore *memstore.OTP
	outbox   *memstore.Outbox
	events   *memstore.Events
	razorpay *gateway.Razorpay

	catalog  *CatalogService
	cart     *CartService
	coupon   *CouponService
	order    *OrderService
	payment  *PaymentService
	review   *ReviewService
	otp      *OTPService
	auth     *AuthService
	oil      models.Product
	ghee     models.Product
	alice    *models.User
	bob      *models.User
	admin    *models.User
}

func inline(fn func(ctx context.Context)) { fn(context.Background()) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		oil: models.Product{
			ID:         bson.NewObjectID(),
			ProductID:  "OIL-GN-1",
			Name:       "Groundnut Oil",
			Category:   "oils",
			Quantities: []models.SizePrice{{Size: "1L", Price: 150}, {Size: "500ml", Price: 80}},
		},
		ghee: models.Product{
			ID:         bson.NewObjectID(),
			ProductID:  "GHEE-1",
			Name:       "Cow Ghee",
			Category:   "ghee",
			Quantities: []models.SizePrice{{Size: "1kg", Price: 22}},
		},
		alice: &models.User{ID: bson.NewObjectID(), Name: "Alice", Email: "alice@example.com"},
		bob:   &models.User{ID: bson.NewObjectID(), Name: "Bob", Email: "bob@example.com"},
		admin: &models.User{ID: bson.NewObjectID(), Name: "Admin", Email: "admin@example.com", IsAdmin: true},
	}

	f.products = memstore.NewProducts(f.oil, f.ghee)
	f.cache = memstore.NewCache()
	f.carts = memstore.NewCarts()
	f.orders = memstore.NewOrders()
	f.payments = memstore.NewPayments()
	f.charges = memstore.NewDeliveryCharges(models.DeliveryCharge{FromState: "Tamil Nadu", ToState: "Kerala", Charge: 60})
	f.coupons = memstore.NewCoupons()
	f.reviews = memstore.NewReviews()
	f.users = memstore.NewUsers(*f.alice, *f.bob, *f.admin)
	f.otpStore = memstore.NewOTP()
	f.outbox = &memstore.Outbox{}
	f.events = &memstore.Events{}

	f.catalog = NewCatalogService(f.products, f.cache)
	f.cart = NewCartService(f.carts, f.products)
	f.coupon = NewCouponService(f.coupons, f.orders)
	f.order = NewOrderService(f.orders, f.products, f.charges, f.coupon, f.events, "Tamil Nadu")
	f.order.run = inline
	f.razorpay = gateway.NewRazorpay("rzp_id", razorpaySecret)
	f.payment = NewPaymentService(f.orders, f.payments, f.users, gateway.NewRegistry(f.razorpay), f.outbox, f.events, "INR")
	f.payment.run = inline
	f.review = NewReviewService(f.reviews, f.products)
	f.otp = NewOTPService(f.otpStore, f.users, f.outbox)
	f.auth = NewAuthService(f.users, f.otp, nil, "test-secret")
	return f
}

// placeOrder creates a NEW order for user with two litres of oil.
func (f *fixture) placeOrder(t *testing.T, user *models.User) *models.Order {
	t.Helper()
	order, err := f.order.Create(context.Background(), user, &models.CreateOrderRequest{
		Name:    user.Name,
		Address: "12 Temple Street",
		Items:   []models.OrderItemRequest{{Product: f.oil.ID.Hex(), Size: "1L", Price: 150, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}
