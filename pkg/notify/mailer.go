package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/pkg/global"
)

// Message is an HTML e-mail.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer sends through SMTP with PLAIN auth. Without a host it only logs,
// which is how development environments run.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg global.SMTPConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		send:     smtp.SendMail,
	}
}

func (m *Mailer) Configured() bool {
	return m.host != "" && m.username != "" && m.password != ""
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail %q has no recipients", msg.Subject)
	}
	if !m.Configured() {
		log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("SMTP not configured, simulating mail delivery")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := m.send(addr, auth, m.from, msg.To, m.compose(msg)); err != nil {
		return fmt.Errorf("failed to send mail %q: %w", msg.Subject, err)
	}
	return nil
}

func (m *Mailer) compose(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: Isvaryam <%s>\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
