package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/models"
	"isvaryam.com/storefront/pkg/notify"
)

// Stores return *global.Error values: NotFound for missing documents and
// Conflict for unique index violations.

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	Search(ctx context.Context, term string) ([]models.Product, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	GetByProductID(ctx context.Context, productID string) (*models.Product, error)
	IDsByCategory(ctx context.Context, category string) ([]bson.ObjectID, error)
	Create(ctx context.Context, product *models.Product) error
	Replace(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id bson.ObjectID) (*models.Product, error)
}

// ProductCache is keyed by productId.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
	Remove(ctx context.Context, product *models.Product) error
}

type CartStore interface {
	Get(ctx context.Context, userID bson.ObjectID) (*models.Cart, error)
	UpsertItem(ctx context.Context, userID bson.ObjectID, item models.CartItem) (*models.Cart, error)
	// RemoveItem returns a nil cart when the last line was removed and the cart deleted.
	RemoveItem(ctx context.Context, userID, productID bson.ObjectID, size string) (*models.Cart, error)
	Delete(ctx context.Context, userID bson.ObjectID) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Order, error)
	LatestByStatus(ctx context.Context, userID bson.ObjectID, status string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	CountByStatus(ctx context.Context, userID bson.ObjectID, status string) (int64, error)
	// MarkPaid moves a NEW order to PAYED; an order in any other state is a Conflict.
	MarkPaid(ctx context.Context, id bson.ObjectID, paymentID string) (*models.Order, error)
	// SettlePaid moves any order that is not already PAYED to PAYED.
	SettlePaid(ctx context.Context, id bson.ObjectID, paymentID string) (*models.Order, error)
	// AddGatewayOrder records a gateway checkout on a NEW order.
	AddGatewayOrder(ctx context.Context, id bson.ObjectID, ref models.GatewayRef) (*models.Order, error)
	UpdateStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Order, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Payment, error)
	FindByGatewayID(ctx context.Context, method, paymentID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Payment, error)
}

type DeliveryChargeStore interface {
	Find(ctx context.Context, fromState, toState string) (*models.DeliveryCharge, error)
	List(ctx context.Context) ([]models.DeliveryCharge, error)
	Upsert(ctx context.Context, charge *models.DeliveryCharge) (*models.DeliveryCharge, error)
}

type CouponStore interface {
	List(ctx context.Context) ([]models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, id bson.ObjectID, coupon *models.Coupon) (*models.Coupon, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Review, error)
	CountByCustomer(ctx context.Context, productID, customerID bson.ObjectID) (int64, error)
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	AverageRatings(ctx context.Context) ([]models.ProductRating, error)
	ProductRating(ctx context.Context, productID bson.ObjectID) (*models.ProductRating, error)
	Distribution(ctx context.Context, productID bson.ObjectID) ([]models.RatingCount, error)
	AddReply(ctx context.Context, reviewID bson.ObjectID, reply models.Reply) (*models.Review, error)
	UpdateReply(ctx context.Context, reviewID, replyID bson.ObjectID, text string) (*models.Review, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type WishlistStore interface {
	Add(ctx context.Context, userID, productID bson.ObjectID) (*models.WishlistItem, error)
	List(ctx context.Context, userID bson.ObjectID) ([]models.WishlistItem, error)
	Remove(ctx context.Context, userID, productID bson.ObjectID) error
}

type RecipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	List(ctx context.Context) ([]models.Recipe, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Recipe, error)
	Replace(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id bson.ObjectID) error
	SetLike(ctx context.Context, id, userID bson.ObjectID, liked bool) (*models.Recipe, error)
	AddRating(ctx context.Context, id bson.ObjectID, rating models.RecipeRating) (*models.Recipe, error)
}

// OTPStore keeps codes and verified markers with server-side expiry.
type OTPStore interface {
	Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	Get(ctx context.Context, purpose, email string) (string, error)
	IncrementAttempts(ctx context.Context, purpose, email string) (int64, error)
	Delete(ctx context.Context, purpose, email string) error
	MarkVerified(ctx context.Context, purpose, email string, ttl time.Duration) error
	// ConsumeVerified reports whether the marker existed and removes it.
	ConsumeVerified(ctx context.Context, purpose, email string) (bool, error)
}

type AnalyticsStore interface {
	RevenueTrend(ctx context.Context) ([]models.RevenuePoint, error)
	TopProducts(ctx context.Context, limit int64) ([]models.TopProduct, error)
}

type Mailer interface {
	Send(ctx context.Context, msg notify.Message) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event, id string, payload any) error
}
