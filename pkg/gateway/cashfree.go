package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const (
	cashfreeSandboxURL    = "https://sandbox.cashfree.com/pg"
	cashfreeProductionURL = "https://api.cashfree.com/pg"
	cashfreeAPIVersion    = "2023-08-01"
)

type Cashfree struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Client       *http.Client
}

func NewCashfree(clientID, clientSecret, env string) *Cashfree {
	base := cashfreeSandboxURL
	if strings.EqualFold(env, "production") {
		base = cashfreeProductionURL
	}
	return &Cashfree{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      base,
		Client:       defaultHTTPClient(),
	}
}

func (c *Cashfree) Name() string { return "Cashfree" }

func (c *Cashfree) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, global.Internal("failed to build Cashfree request", err)
	}
	req.Header.Set("x-client-id", c.ClientID)
	req.Header.Set("x-client-secret", c.ClientSecret)
	req.Header.Set("x-api-version", cashfreeAPIVersion)
	return req, nil
}

type cashfreeOrder struct {
	OrderID          string  `json:"order_id"`
	OrderAmount      float64 `json:"order_amount"`
	OrderCurrency    string  `json:"order_currency"`
	PaymentSessionID string  `json:"payment_session_id"`
}

func (c *Cashfree) CreateIntent(ctx context.Context, order Order) (*Intent, error) {
	phone := order.CustomerPhone
	if phone == "" {
		phone = "9999999999"
	}
	body := map[string]any{
		"order_id":       order.ID,
		"order_amount":   order.Amount,
		"order_currency": order.Currency,
		"customer_details": map[string]string{
			"customer_id":    order.CustomerID,
			"customer_name":  order.CustomerName,
			"customer_email": order.CustomerEmail,
			"customer_phone": phone,
		},
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/orders")
	if err != nil {
		return nil, err
	}

	var created cashfreeOrder
	if err := doJSON(c.Client, req, body, &created, cashfreeErrorDetail); err != nil {
		return nil, err
	}
	return &Intent{
		Gateway:          c.Name(),
		OrderID:          created.OrderID,
		Amount:           ToMinorUnits(created.OrderAmount),
		Currency:         created.OrderCurrency,
		PaymentSessionID: created.PaymentSessionID,
	}, nil
}

type cashfreePayment struct {
	CFPaymentID     json.Number `json:"cf_payment_id"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentAmount   float64     `json:"payment_amount"`
	PaymentCurrency string      `json:"payment_currency"`
}

// VerifyCallback asks Cashfree for the order's payments rather than trusting
// the status the client reports. Cashfree orders reuse the storefront order
// id, so it is also the reference.
func (c *Cashfree) VerifyCallback(ctx context.Context, cb Callback) (*Result, error) {
	orderID := cb.first("order_id")
	if orderID == "" {
		return nil, global.BadRequest("Missing payment verification fields")
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/payments")
	if err != nil {
		return nil, err
	}

	var payments []cashfreePayment
	if err := doJSON(c.Client, req, nil, &payments, cashfreeErrorDetail); err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, global.BadRequest("No payment found for this order")
	}

	chosen := payments[0]
	for _, p := range payments {
		if p.PaymentStatus == "SUCCESS" {
			chosen = p
			break
		}
	}
	return &Result{
		PaymentID:      chosen.CFPaymentID.String(),
		GatewayOrderID: orderID,
		ReferenceID:    orderID,
		Status:         cashfreeStatus(chosen.PaymentStatus),
		Amount:         ToMinorUnits(chosen.PaymentAmount),
		Currency:       chosen.PaymentCurrency,
	}, nil
}

func cashfreeStatus(status string) string {
	switch status {
	case "SUCCESS":
		return models.PaymentStatusCompleted
	case "PENDING", "NOT_ATTEMPTED":
		return models.PaymentStatusPending
	default:
		return models.PaymentStatusFailed
	}
}

func cashfreeErrorDetail(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.Message
}
