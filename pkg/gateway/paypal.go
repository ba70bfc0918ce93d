package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const (
	paypalSandboxURL = "https://api-m.sandbox.paypal.com"
	paypalLiveURL    = "https://api-m.paypal.com"
)

// PayPal charges in Currency, converting the store amount with Rate.
type PayPal struct {
	BaseURL  string
	Currency string
	Rate     decimal.Decimal
	Client   *http.Client
}

func NewPayPal(clientID, clientSecret, env, currency string, rate float64) *PayPal {
	base := paypalSandboxURL
	if strings.EqualFold(env, "live") || strings.EqualFold(env, "production") {
		base = paypalLiveURL
	}
	return newPayPal(base, clientID, clientSecret, currency, rate)
}

func newPayPal(base, clientID, clientSecret, currency string, rate float64) *PayPal {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     base + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, defaultHTTPClient())
	return &PayPal{
		BaseURL:  base,
		Currency: currency,
		Rate:     decimal.NewFromFloat(rate),
		Client:   cfg.Client(ctx),
	}
}

func (p *PayPal) Name() string { return "PayPal" }

type paypalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		Amount      struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (p *PayPal) convert(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Mul(p.Rate).Round(2)
}

// Charge converts a store amount into PayPal's currency, in cents.
func (p *PayPal) Charge(amount float64, _ string) (int64, string) {
	return p.convert(amount).Mul(decimal.NewFromInt(100)).IntPart(), p.Currency
}

func (p *PayPal) CreateIntent(ctx context.Context, order Order) (*Intent, error) {
	value := p.convert(order.Amount)
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": order.ID,
			"amount": map[string]string{
				"currency_code": p.Currency,
				"value":         value.StringFixed(2),
			},
		}},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v2/checkout/orders", nil)
	if err != nil {
		return nil, global.Internal("failed to build PayPal request", err)
	}

	var created paypalOrder
	if err := doJSON(p.Client, req, body, &created, paypalErrorDetail); err != nil {
		return nil, err
	}
	charged, currency := p.Charge(order.Amount, order.Currency)
	intent := &Intent{
		Gateway:  p.Name(),
		OrderID:  created.ID,
		Amount:   charged,
		Currency: currency,
	}
	for _, link := range created.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			intent.ApproveURL = link.Href
		}
	}
	return intent, nil
}

// VerifyCallback reads the PayPal order back; the capture id, when present,
// identifies the payment.
func (p *PayPal) VerifyCallback(ctx context.Context, cb Callback) (*Result, error) {
	orderID := cb.first("paypal_order_id", "payment_id")
	if orderID == "" {
		return nil, global.BadRequest("Missing payment verification fields")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, global.Internal("failed to build PayPal request", err)
	}

	var order paypalOrder
	if err := doJSON(p.Client, req, nil, &order, paypalErrorDetail); err != nil {
		return nil, err
	}

	result := &Result{
		PaymentID:      order.ID,
		GatewayOrderID: order.ID,
		Status:         paypalStatus(order.Status),
	}
	if len(order.PurchaseUnits) > 0 {
		unit := order.PurchaseUnits[0]
		result.ReferenceID = unit.ReferenceID
		if value, err := decimal.NewFromString(unit.Amount.Value); err == nil {
			result.Amount = value.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
			result.Currency = unit.Amount.CurrencyCode
		}
		if captures := unit.Payments.Captures; len(captures) > 0 {
			result.PaymentID = captures[0].ID
		}
	}
	return result, nil
}

func paypalStatus(status string) string {
	switch status {
	case "COMPLETED":
		return models.PaymentStatusCompleted
	case "APPROVED", "CREATED", "SAVED", "PAYER_ACTION_REQUIRED":
		return models.PaymentStatusPending
	default:
		return models.PaymentStatusFailed
	}
}

func paypalErrorDetail(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Details []struct {
			Description string `json:"description"`
		} `json:"details"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if len(body.Details) > 0 && body.Details[0].Description != "" {
		return body.Details[0].Description
	}
	return body.Message
}
