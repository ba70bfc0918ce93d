package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const orderNotFound = "Order Not Found!"

type OrderStore struct {
	coll *mongo.Collection
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = bson.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, order)
	return translateError(err, orderNotFound)
}

func (s *OrderStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	return findOne[models.Order](ctx, s.coll, byID(id), orderNotFound)
}

func (s *OrderStore) LatestByStatus(ctx context.Context, userID bson.ObjectID, status string) (*models.Order, error) {
	filter := bson.D{{Key: "user", Value: userID}, {Key: "status", Value: status}}
	return findOne[models.Order](ctx, s.coll, filter, orderNotFound, options.FindOne().SetSort(newestFirst))
}

func orderListFilter(filter models.OrderFilter) bson.D {
	query := bson.D{}
	if filter.User != nil {
		query = append(query, bson.E{Key: "user", Value: *filter.User})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	if created := dateRange(filter.From, filter.To); created != nil {
		query = append(query, bson.E{Key: "createdAt", Value: created})
	}
	return query
}

func (s *OrderStore) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.coll, orderListFilter(filter), options.Find().SetSort(newestFirst))
}

func (s *OrderStore) CountByStatus(ctx context.Context, userID bson.ObjectID, status string) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{{Key: "user", Value: userID}, {Key: "status", Value: status}})
}

// MarkPaid is conditional on status NEW, so two confirmations racing for the
// same order cannot both flip it.
func (s *OrderStore) MarkPaid(ctx context.Context, id bson.ObjectID, paymentID string) (*models.Order, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "status", Value: models.OrderStatusNew}}
	return s.pay(ctx, id, filter, paymentID, "Order is not awaiting payment")
}

// SettlePaid is the admin path: any order not already PAYED is flipped.
func (s *OrderStore) SettlePaid(ctx context.Context, id bson.ObjectID, paymentID string) (*models.Order, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: models.OrderStatusPayed}}},
	}
	return s.pay(ctx, id, filter, paymentID, "Order is already paid")
}

func (s *OrderStore) pay(ctx context.Context, id bson.ObjectID, filter bson.D, paymentID, conflict string) (*models.Order, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: models.OrderStatusPayed},
		{Key: "paymentId", Value: paymentID},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	order, err := updateOne[models.Order](ctx, s.coll, filter, update, orderNotFound)
	if err == nil || !global.IsNotFound(err) {
		return order, err
	}
	return nil, s.missOrConflict(ctx, id, err, conflict)
}

// AddGatewayOrder remembers a gateway checkout so its callback can be tied
// back to this order. Only NEW orders accept one.
func (s *OrderStore) AddGatewayOrder(ctx context.Context, id bson.ObjectID, ref models.GatewayRef) (*models.Order, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "status", Value: models.OrderStatusNew}}
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "gatewayOrders", Value: ref}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
	order, err := updateOne[models.Order](ctx, s.coll, filter, update, orderNotFound)
	if err == nil || !global.IsNotFound(err) {
		return order, err
	}
	return nil, s.missOrConflict(ctx, id, err, "Order is not awaiting payment")
}

// missOrConflict tells a missing order apart from one whose status guard failed.
func (s *OrderStore) missOrConflict(ctx context.Context, id bson.ObjectID, notFound error, conflict string) error {
	n, err := s.coll.CountDocuments(ctx, byID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return global.Conflict(conflict)
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Order, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	return updateOne[models.Order](ctx, s.coll, byID(id), update, orderNotFound)
}

func (s *OrderStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return global.NotFound(orderNotFound)
	}
	return nil
}

const paymentNotFound = "Payment not found"

type PaymentStore struct {
	coll *mongo.Collection
}

// Create fails with a Conflict when (method, paymentId) was already recorded.
func (s *PaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID.IsZero() {
		payment.ID = bson.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, payment)
	return translateError(err, paymentNotFound)
}

func (s *PaymentStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Payment, error) {
	return findOne[models.Payment](ctx, s.coll, byID(id), paymentNotFound)
}

func (s *PaymentStore) FindByGatewayID(ctx context.Context, method, paymentID string) (*models.Payment, error) {
	filter := bson.D{{Key: "method", Value: method}, {Key: "paymentId", Value: paymentID}}
	return findOne[models.Payment](ctx, s.coll, filter, paymentNotFound)
}

func (s *PaymentStore) UpdateStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Payment, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	return updateOne[models.Payment](ctx, s.coll, byID(id), update, paymentNotFound)
}

const chargeNotFound = "Delivery charge not found"

type DeliveryChargeStore struct {
	coll *mongo.Collection
}

func (s *DeliveryChargeStore) Find(ctx context.Context, fromState, toState string) (*models.DeliveryCharge, error) {
	filter := bson.D{{Key: "fromState", Value: fromState}, {Key: "toState", Value: toState}}
	return findOne[models.DeliveryCharge](ctx, s.coll, filter, chargeNotFound)
}

func (s *DeliveryChargeStore) List(ctx context.Context) ([]models.DeliveryCharge, error) {
	return findAll[models.DeliveryCharge](ctx, s.coll, bson.D{},
		options.Find().SetSort(bson.D{{Key: "fromState", Value: 1}, {Key: "toState", Value: 1}}))
}

func (s *DeliveryChargeStore) Upsert(ctx context.Context, charge *models.DeliveryCharge) (*models.DeliveryCharge, error) {
	filter := bson.D{{Key: "fromState", Value: charge.FromState}, {Key: "toState", Value: charge.ToState}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "charge", Value: charge.Charge}}}}
	return updateOne[models.DeliveryCharge](ctx, s.coll, filter, update, chargeNotFound, returnAfter().SetUpsert(true))
}

const couponNotFound = "Coupon not found"

type CouponStore struct {
	coll *mongo.Collection
}

func (s *CouponStore) List(ctx context.Context) ([]models.Coupon, error) {
	return findAll[models.Coupon](ctx, s.coll, bson.D{}, options.Find().SetSort(newestFirst))
}

func (s *CouponStore) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, s.coll, bson.D{{Key: "couponCode", Value: code}}, couponNotFound)
}

func (s *CouponStore) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID.IsZero() {
		coupon.ID = bson.NewObjectID()
	}
	coupon.SetTimestamps()
	_, err := s.coll.InsertOne(ctx, coupon)
	return translateError(err, couponNotFound)
}

// Update replaces every field except _id and createdAt.
func (s *CouponStore) Update(ctx context.Context, id bson.ObjectID, coupon *models.Coupon) (*models.Coupon, error) {
	existing, err := findOne[models.Coupon](ctx, s.coll, byID(id), couponNotFound)
	if err != nil {
		return nil, err
	}

	updated := *coupon
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.SetTimestamps()

	result, err := s.coll.ReplaceOne(ctx, byID(id), &updated)
	if err != nil {
		return nil, translateError(err, couponNotFound)
	}
	if result.MatchedCount == 0 {
		return nil, global.NotFound(couponNotFound)
	}
	return &updated, nil
}

func (s *CouponStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return global.NotFound(couponNotFound)
	}
	return nil
}
