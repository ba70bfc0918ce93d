package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/internal/service"
	"isvaryam.com/storefront/pkg/gateway"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

type intentRequest struct {
	OrderID string `json:"orderId"`
}

// CreatePaymentIntent opens a payment with the gateway named in the path for
// the given order, or the caller's latest NEW order.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req intentRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	intent, err := h.Payments.CreateIntent(c.Request.Context(), currentUser(c), c.Param("gateway"), req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, intent)
}

// VerifyPayment passes the gateway's callback fields through untouched; the
// optional orderId key selects the order.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var body map[string]any
	if !bindJSON(c, &body) {
		return
	}
	cb := callbackFrom(body)
	orderID := cb["orderId"]

	confirmation, err := h.Payments.VerifyAndConfirm(c.Request.Context(), currentUser(c), c.Param("gateway"), orderID, cb)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, confirmation)
}

func callbackFrom(body map[string]any) gateway.Callback {
	cb := gateway.Callback{}
	for key, value := range body {
		switch v := value.(type) {
		case string:
			cb[key] = v
		case float64:
			cb[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			cb[key] = strconv.FormatBool(v)
		}
	}
	return cb
}

// Pay records a manually reported payment and answers with the order id.
func (h *Handler) Pay(c *gin.Context) {
	var req models.PayRequest
	if !bindJSON(c, &req) {
		return
	}
	confirmation, err := h.Payments.ManualPay(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, confirmation.OrderID)
}

func (h *Handler) ListOrders(c *gin.Context) {
	filter := models.OrderFilter{Status: c.Param("status")}
	orders, err := h.Orders.List(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, orders)
}

// ListAllOrders is the admin listing with user, status and date filters.
func (h *Handler) ListAllOrders(c *gin.Context) {
	filter := models.OrderFilter{Status: c.Query("status")}
	if user := c.Query("user"); user != "" {
		id, err := bson.ObjectIDFromHex(user)
		if err != nil {
			respondError(c, global.BadRequest("Invalid user id").WithField("user", "invalid_id"))
			return
		}
		filter.User = &id
	}

	var err error
	if filter.From, err = service.ParseDateBound(c.Query("from"), false); err != nil {
		respondError(c, err)
		return
	}
	if filter.To, err = service.ParseDateBound(c.Query("to"), true); err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.Orders.List(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, orders)
}

func (h *Handler) AllStatus(c *gin.Context) {
	ok(c, models.OrderStatuses)
}

func (h *Handler) PurchaseCount(c *gin.Context) {
	count, err := h.Orders.PurchaseCount(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"count": count})
}

func (h *Handler) CurrentNewOrder(c *gin.Context) {
	order, err := h.Orders.CurrentNew(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

func (h *Handler) TrackOrder(c *gin.Context) {
	h.getOrder(c, c.Param("orderId"))
}

func (h *Handler) GetOrder(c *gin.Context) {
	h.getOrder(c, c.Param("id"))
}

func (h *Handler) getOrder(c *gin.Context, id string) {
	order, err := h.Orders.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

func (h *Handler) QuoteDeliveryCharge(c *gin.Context) {
	state := c.Query("state")
	charge, err := h.Orders.DeliveryCharge(c.Request.Context(), state)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"state": state, "deliveryCharge": charge})
}

func (h *Handler) ListDeliveryCharges(c *gin.Context) {
	charges, err := h.Orders.ListDeliveryCharges(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, charges)
}

func (h *Handler) SetDeliveryCharge(c *gin.Context) {
	var req models.DeliveryCharge
	if !bindJSON(c, &req) {
		return
	}
	charge, err := h.Orders.SetDeliveryCharge(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, charge)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.Payments.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, payment)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.Orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Order deleted successfully"))
}
