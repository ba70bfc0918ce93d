package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const razorpayBaseURL = "https://api.razorpay.com"

type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Client    *http.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   razorpayBaseURL,
		Client:    defaultHTTPClient(),
	}
}

func (r *Razorpay) Name() string { return "Razorpay" }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (r *Razorpay) CreateIntent(ctx context.Context, order Order) (*Intent, error) {
	body := map[string]any{
		"amount":          ToMinorUnits(order.Amount),
		"currency":        order.Currency,
		"receipt":         "order_rcptid_" + order.ID,
		"payment_capture": 1,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/v1/orders", nil)
	if err != nil {
		return nil, global.Internal("failed to build Razorpay request", err)
	}
	req.SetBasicAuth(r.KeyID, r.KeySecret)

	var created razorpayOrder
	if err := doJSON(r.Client, req, body, &created, razorpayErrorDetail); err != nil {
		return nil, err
	}
	return &Intent{
		Gateway:  r.Name(),
		OrderID:  created.ID,
		Amount:   created.Amount,
		Currency: created.Currency,
		Receipt:  created.Receipt,
		KeyID:    r.KeyID,
	}, nil
}

// VerifyCallback checks the checkout signature, an HMAC-SHA256 of
// "<razorpay_order_id>|<razorpay_payment_id>" keyed with the secret.
func (r *Razorpay) VerifyCallback(_ context.Context, cb Callback) (*Result, error) {
	orderID := cb.first("razorpay_order_id")
	paymentID := cb.first("razorpay_payment_id", "payment_id")
	signature := cb.first("razorpay_signature")
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, global.BadRequest("Missing payment verification fields")
	}

	expected := RazorpaySignature(r.KeySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, global.BadRequest("Invalid Signature!")
	}
	return &Result{
		PaymentID:      paymentID,
		GatewayOrderID: orderID,
		Status:         models.PaymentStatusCompleted,
	}, nil
}

func RazorpaySignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func razorpayErrorDetail(raw []byte) string {
	var body struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.Error.Description
}
