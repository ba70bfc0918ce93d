package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"isvaryam.com/storefront/pkg/global"
)

// Order is the view of a storefront order a gateway needs to open a payment.
type Order struct {
	ID            string
	Amount        float64
	Currency      string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Intent is returned to the client to start the gateway's checkout.
type Intent struct {
	Gateway          string `json:"gateway"`
	OrderID          string `json:"orderId"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Receipt          string `json:"receipt,omitempty"`
	KeyID            string `json:"keyId,omitempty"`
	PaymentSessionID string `json:"paymentSessionId,omitempty"`
	ApproveURL       string `json:"approveUrl,omitempty"`
}

// Callback holds the fields the client posts back after checkout. Each gateway
// reads its own keys and falls back to the generic "order_id"/"payment_id".
type Callback map[string]string

func (c Callback) first(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c[k]); v != "" {
			return v
		}
	}
	return ""
}

// Result is a verified payment outcome. ReferenceID is the storefront order
// id the gateway holds for the payment, when it keeps one. Amount is in minor
// units of Currency; zero means the gateway did not report it.
type Result struct {
	PaymentID      string
	GatewayOrderID string
	ReferenceID    string
	Status         string
	Amount         int64
	Currency       string
}

type Gateway interface {
	Name() string
	CreateIntent(ctx context.Context, order Order) (*Intent, error)
	VerifyCallback(ctx context.Context, cb Callback) (*Result, error)
}

// Registry maps lower-case gateway names to configured gateways.
type Registry map[string]Gateway

func NewRegistry(gateways ...Gateway) Registry {
	r := make(Registry, len(gateways))
	for _, g := range gateways {
		r[strings.ToLower(g.Name())] = g
	}
	return r
}

func (r Registry) Get(name string) (Gateway, bool) {
	g, ok := r[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, g := range r {
		names = append(names, g.Name())
	}
	return names
}

// ChargeQuoter is implemented by gateways that do not charge the store amount
// as-is.
type ChargeQuoter interface {
	Charge(amount float64, currency string) (int64, string)
}

// ExpectedCharge is what g bills, in minor units, for an order of amount.
func ExpectedCharge(g Gateway, amount float64, currency string) (int64, string) {
	if q, ok := g.(ChargeQuoter); ok {
		return q.Charge(amount, currency)
	}
	return ToMinorUnits(amount), currency
}

// ToMinorUnits converts an amount to the smallest currency unit (paise, cents).
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out.
// Non-2xx responses become gateway errors carrying describe(body).
func doJSON(client *http.Client, req *http.Request, body any, out any, describe func([]byte) string) error {
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return global.Internal("failed to encode gateway request", err)
		}
		req.Body = io.NopCloser(strings.NewReader(string(payload)))
		req.ContentLength = int64(len(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return global.Gateway("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return global.Gateway("failed to read gateway response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := describe(raw)
		if detail == "" {
			detail = resp.Status
		}
		return global.Gateway("payment gateway rejected the request", errors.New(detail))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return global.Gateway("unexpected gateway response", err)
	}
	return nil
}
