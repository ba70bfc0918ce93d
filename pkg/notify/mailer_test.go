package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestUnconfiguredMailerSimulates(t *testing.T) {
	m := NewMailer(global.SMTPConfig{})
	assert.False(t, m.Configured())
	assert.NoError(t, m.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "hi"}))
	assert.Error(t, m.Send(context.Background(), Message{Subject: "nobody"}))
}

func TestMailerSendsThroughSMTP(t *testing.T) {
	m := NewMailer(global.SMTPConfig{Host: "smtp.test", Port: "587", Username: "u", Password: "p", From: "shop@test"})
	var gotAddr string
	var gotBody []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotBody = msg
		assert.Equal(t, "shop@test", from)
		assert.Equal(t, []string{"a@b.c"}, to)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "Receipt", HTML: "<p>ok</p>"}))
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Contains(t, string(gotBody), "Subject: Receipt\r\n")
	assert.Contains(t, string(gotBody), "<p>ok</p>")

	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay denied") }
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: []string{"a@b.c"}}), "relay denied")
}

func TestTemplates(t *testing.T) {
	msg, err := OTPMessage("a@b.c", "123456", 5)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "123456")

	order := &models.Order{ID: bson.NewObjectID(), Name: "Asha", TotalPrice: 355.26,
		Items: []models.OrderItem{{Size: "1L", Quantity: 2, Price: 150}}}
	msg, err = ReceiptMessage(order, "asha@example.com")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "355.26")
	assert.Contains(t, msg.Subject, order.ID.Hex())

	msgs, err := ContactMessages(models.ContactRequest{Name: "A", Email: "a@b.c", Subject: "Bulk", Message: "<script>"}, "shop@test")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []string{"shop@test"}, msgs[0].To)
	assert.NotContains(t, msgs[1].HTML, "<script>")
}
