package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(35526), ToMinorUnits(355.26))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry(NewRazorpay("id", "secret"))

	g, ok := r.Get("RAZORPAY")
	require.True(t, ok)
	assert.Equal(t, "Razorpay", g.Name())

	_, ok = r.Get("cashfree")
	assert.False(t, ok)
}

func TestRazorpaySignatureKnownAnswer(t *testing.T) {
	// hex(HMAC-SHA256(key "S", "O1|P1"))
	assert.Equal(t, "ef4d0829667a3e0bb91e3c6b6bafdd17035694be0cff91ab24b74c1fcdf2f48c", RazorpaySignature("S", "O1", "P1"))

	rp := NewRazorpay("rzp_test", "S")
	res, err := rp.VerifyCallback(context.Background(), Callback{
		"razorpay_order_id":   "O1",
		"razorpay_payment_id": "P1",
		"razorpay_signature":  "ef4d0829667a3e0bb91e3c6b6bafdd17035694be0cff91ab24b74c1fcdf2f48c",
	})
	require.NoError(t, err)
	assert.Equal(t, "O1", res.GatewayOrderID)
	assert.Empty(t, res.ReferenceID)

	for _, sig := range []string{
		"ef4d0829667a3e0bb91e3c6b6bafdd17035694be0cff91ab24b74c1fcdf2f48d",
		"EF4D0829667A3E0BB91E3C6B6BAFDD17035694BE0CFF91AB24B74C1FCDF2F48C",
		"ef4d0829",
	} {
		_, err := rp.VerifyCallback(context.Background(), Callback{
			"razorpay_order_id":   "O1",
			"razorpay_payment_id": "P1",
			"razorpay_signature":  sig,
		})
		assert.Equal(t, global.KindBadRequest, global.KindOf(err), sig)
	}
}

func TestRazorpayVerifyCallback(t *testing.T) {
	rp := NewRazorpay("rzp_test", "shh")
	sig := RazorpaySignature("shh", "order_1", "pay_1")

	res, err := rp.VerifyCallback(context.Background(), Callback{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  sig,
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_1", res.PaymentID)
	assert.Equal(t, models.PaymentStatusCompleted, res.Status)

	_, err = rp.VerifyCallback(context.Background(), Callback{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_2",
		"razorpay_signature":  sig,
	})
	require.Error(t, err)
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
	assert.Contains(t, err.Error(), "Invalid Signature!")

	_, err = rp.VerifyCallback(context.Background(), Callback{"razorpay_order_id": "order_1"})
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
}

func TestRazorpayCreateIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test" || pass != "shh" || r.URL.Path != "/v1/orders" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_rzp_1",
			"amount":   body["amount"],
			"currency": body["currency"],
			"receipt":  body["receipt"],
		})
	}))
	defer server.Close()

	rp := NewRazorpay("rzp_test", "shh")
	rp.BaseURL = server.URL

	intent, err := rp.CreateIntent(context.Background(), Order{ID: "abc", Amount: 355.26, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "order_rzp_1", intent.OrderID)
	assert.Equal(t, int64(35526), intent.Amount)
	assert.Equal(t, "order_rcptid_abc", intent.Receipt)
	assert.Equal(t, "rzp_test", intent.KeyID)
}

func TestRazorpayCreateIntentSurfacesGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer server.Close()

	rp := NewRazorpay("rzp_test", "shh")
	rp.BaseURL = server.URL

	_, err := rp.CreateIntent(context.Background(), Order{ID: "abc", Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Equal(t, global.KindGateway, global.KindOf(err))
	assert.Contains(t, err.Error(), "amount exceeds maximum")
}

func TestCashfreeVerifyCallbackUsesGatewayStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cf_id", r.Header.Get("x-client-id"))
		assert.Equal(t, cashfreeAPIVersion, r.Header.Get("x-api-version"))
		switch r.URL.Path {
		case "/orders/paid/payments":
			w.Write([]byte(`[{"cf_payment_id":"111","payment_status":"FAILED"},{"cf_payment_id":222,"payment_status":"SUCCESS","payment_amount":355.26,"payment_currency":"INR"}]`))
		case "/orders/pending/payments":
			w.Write([]byte(`[{"cf_payment_id":"333","payment_status":"NOT_ATTEMPTED"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"order not found"}`))
		}
	}))
	defer server.Close()

	cf := NewCashfree("cf_id", "cf_secret", "sandbox")
	cf.BaseURL = server.URL

	res, err := cf.VerifyCallback(context.Background(), Callback{"order_id": "paid", "status": "FAILED"})
	require.NoError(t, err)
	assert.Equal(t, "222", res.PaymentID)
	assert.Equal(t, models.PaymentStatusCompleted, res.Status)
	assert.Equal(t, "paid", res.ReferenceID)
	assert.Equal(t, int64(35526), res.Amount)
	assert.Equal(t, "INR", res.Currency)

	res, err = cf.VerifyCallback(context.Background(), Callback{"order_id": "pending"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, res.Status)

	_, err = cf.VerifyCallback(context.Background(), Callback{"order_id": "missing"})
	assert.Equal(t, global.KindGateway, global.KindOf(err))
	assert.Contains(t, err.Error(), "order not found")
}

func TestPayPalCreateAndVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			user, _, _ := r.BasicAuth()
			assert.Equal(t, "pp_id", user)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/checkout/orders":
			var body struct {
				PurchaseUnits []struct {
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"purchase_units"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "12.00", body.PurchaseUnits[0].Amount.Value)
			w.Write([]byte(`{"id":"PP1","status":"CREATED","links":[{"href":"https://paypal.test/approve","rel":"approve"}]}`))
		case r.URL.Path == "/v2/checkout/orders/PP1":
			w.Write([]byte(`{"id":"PP1","status":"COMPLETED","purchase_units":[{"reference_id":"abc","amount":{"currency_code":"USD","value":"12.00"},"payments":{"captures":[{"id":"CAP1","status":"COMPLETED"}]}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	pp := newPayPal(server.URL, "pp_id", "pp_secret", "USD", 0.012)

	intent, err := pp.CreateIntent(context.Background(), Order{ID: "abc", Amount: 1000, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "PP1", intent.OrderID)
	assert.Equal(t, int64(1200), intent.Amount)
	assert.Equal(t, "https://paypal.test/approve", intent.ApproveURL)

	res, err := pp.VerifyCallback(context.Background(), Callback{"paypal_order_id": "PP1"})
	require.NoError(t, err)
	assert.Equal(t, "CAP1", res.PaymentID)
	assert.Equal(t, models.PaymentStatusCompleted, res.Status)
	assert.Equal(t, "abc", res.ReferenceID)

	want, currency := ExpectedCharge(pp, 1000, "INR")
	assert.Equal(t, want, res.Amount)
	assert.Equal(t, currency, res.Currency)
	assert.Equal(t, "USD", currency)
}

func TestExpectedChargeDefaultsToStoreAmount(t *testing.T) {
	amount, currency := ExpectedCharge(NewRazorpay("id", "secret"), 355.26, "INR")
	assert.Equal(t, int64(35526), amount)
	assert.Equal(t, "INR", currency)
}
