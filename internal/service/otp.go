package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
	"isvaryam.com/storefront/pkg/notify"
)

const (
	PurposeSignup = "signup"
	PurposeReset  = "reset"

	otpTTL         = 5 * time.Minute
	verifiedTTL    = 15 * time.Minute
	maxOTPAttempts = 5
)

type OTPService struct {
	store  OTPStore
	users  UserStore
	mailer Mailer
	random io.Reader
}

func NewOTPService(store OTPStore, users UserStore, mailer Mailer) *OTPService {
	return &OTPService{store: store, users: users, mailer: mailer, random: rand.Reader}
}

func (s *OTPService) generateCode() (string, error) {
	n, err := rand.Int(s.random, big.NewInt(1000000))
	if err != nil {
		return "", global.Internal("failed to generate OTP", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Send mails a fresh code, replacing any earlier one. Reset codes are only
// sent to registered addresses.
func (s *OTPService) Send(ctx context.Context, purpose, email string) error {
	email = global.NormalizeEmail(email)
	if purpose == PurposeReset {
		if _, err := s.users.GetByEmail(ctx, email); err != nil {
			if global.IsNotFound(err) {
				return global.NotFound("Invalid Email! This Email is not an Existing user.!").WithField("email", "not_found")
			}
			return err
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, purpose, email, code, otpTTL); err != nil {
		return err
	}

	msg, err := notify.OTPMessage(email, code, int(otpTTL/time.Minute))
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to send OTP mail")
		return global.Internal("Failed to send OTP", err)
	}
	return nil
}

// Verify checks code in constant time. A correct code is consumed and leaves
// a verified marker that login or password reset can spend once.
func (s *OTPService) Verify(ctx context.Context, purpose, email, code string) error {
	email = global.NormalizeEmail(email)
	stored, err := s.store.Get(ctx, purpose, email)
	if err != nil {
		if global.IsNotFound(err) {
			return global.BadRequest("OTP expired or not found").WithField("otp", "expired")
		}
		return err
	}

	attempts, err := s.store.IncrementAttempts(ctx, purpose, email)
	if err != nil {
		return err
	}
	if attempts > maxOTPAttempts {
		if err := s.store.Delete(ctx, purpose, email); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("failed to discard exhausted OTP")
		}
		return global.BadRequest("Too many attempts, please request a new OTP").WithField("otp", "too_many_attempts")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return global.BadRequest("Invalid OTP").WithField("otp", "invalid")
	}

	if err := s.store.Delete(ctx, purpose, email); err != nil {
		return err
	}
	return s.store.MarkVerified(ctx, purpose, email, verifiedTTL)
}

// Consume spends the verified marker for email, reporting whether there was one.
func (s *OTPService) Consume(ctx context.Context, purpose, email string) (bool, error) {
	return s.store.ConsumeVerified(ctx, purpose, global.NormalizeEmail(email))
}

type ContactService struct {
	mailer    Mailer
	shopEmail string
}

func NewContactService(mailer Mailer, shopEmail string) *ContactService {
	return &ContactService{mailer: mailer, shopEmail: shopEmail}
}

// Send notifies the shop and sends the sender a copy.
func (s *ContactService) Send(ctx context.Context, req *models.ContactRequest) error {
	msgs, err := notify.ContactMessages(*req, s.shopEmail)
	if err != nil {
		return global.Internal("Failed to send email", err)
	}
	for _, msg := range msgs {
		if err := s.mailer.Send(ctx, msg); err != nil {
			return global.Internal("Failed to send email", err)
		}
	}
	return nil
}
