package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"isvaryam.com/storefront/pkg/models"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<div style="font-family:Arial,sans-serif">
<h2>Isvaryam verification code</h2>
<p>Your one-time password is:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Code}}</strong></p>
<p>It expires in {{.Minutes}} minutes. If you did not request it, ignore this e-mail.</p>
</div>`))

var receiptTemplate = template.Must(template.New("receipt").Parse(`<div style="font-family:Arial,sans-serif">
<h2>Thank you for your order, {{.Order.Name}}!</h2>
<p>Order <strong>{{.OrderID}}</strong> has been paid.</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><th align="left">Size</th><th>Qty</th><th align="right">Price</th></tr>
{{range .Order.Items}}<tr><td>{{.Size}}</td><td align="center">{{.Quantity}}</td><td align="right">{{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Subtotal: {{printf "%.2f" .Order.Subtotal}}<br>
Discount: {{printf "%.2f" .Order.Discount}}<br>
Delivery: {{printf "%.2f" .Order.DeliveryCharge}}<br>
<strong>Total: {{printf "%.2f" .Order.TotalPrice}}</strong></p>
<p>Shipping to: {{.Order.Address}}</p>
</div>`))

var contactTemplate = template.Must(template.New("contact").Parse(`<div style="font-family:Arial,sans-serif">
<h3>{{.Heading}}</h3>
<p><strong>Name:</strong> {{.Req.Name}}<br>
<strong>Email:</strong> {{.Req.Email}}<br>
<strong>Subject:</strong> {{.Req.Subject}}</p>
<p>{{.Req.Message}}</p>
</div>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s mail: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func OTPMessage(email, code string, minutes int) (Message, error) {
	html, err := render(otpTemplate, map[string]any{"Code": code, "Minutes": minutes})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{email}, Subject: "Your Isvaryam OTP", HTML: html}, nil
}

func ReceiptMessage(order *models.Order, email string) (Message, error) {
	html, err := render(receiptTemplate, map[string]any{"Order": order, "OrderID": order.ID.Hex()})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{email}, Subject: "Isvaryam order receipt " + order.ID.Hex(), HTML: html}, nil
}

// ContactMessages returns the notification for the shop and the copy for the sender.
func ContactMessages(req models.ContactRequest, shopEmail string) ([]Message, error) {
	toShop, err := render(contactTemplate, map[string]any{"Heading": "New contact form submission", "Req": req})
	if err != nil {
		return nil, err
	}
	toSender, err := render(contactTemplate, map[string]any{"Heading": "We received your message", "Req": req})
	if err != nil {
		return nil, err
	}
	return []Message{
		{To: []string{shopEmail}, Subject: "Contact: " + req.Subject, HTML: toShop},
		{To: []string{req.Email}, Subject: "Thanks for contacting Isvaryam", HTML: toSender},
	}, nil
}
