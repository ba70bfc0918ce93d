package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &models.RegisterRequest{Name: "Meena", Email: "Meena@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "meena@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	_, err = f.auth.Register(ctx, &models.RegisterRequest{Name: "Meena", Email: "meena@example.com", Password: "secret1"})
	assert.Contains(t, err.Error(), "User already exists, please login!")

	login, err := f.auth.Login(ctx, &models.LoginRequest{Email: "MEENA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, login.ID)

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "meena@example.com", Password: "wrong"})
	assert.Contains(t, err.Error(), "Username or password is invalid")

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "meena@example.com"})
	assert.Contains(t, err.Error(), "OTP not verified")

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.Contains(t, err.Error(), "User not found")
}

func TestTokensRoundTripAndExpire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.auth.IssueToken(f.alice)
	require.NoError(t, err)

	user, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, user.ID)

	claims, err := f.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, f.alice.Email, claims.Email)
	assert.False(t, claims.IsAdmin)

	f.auth.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	_, err = f.auth.Authenticate(ctx, token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token expired")

	other := NewAuthService(f.users, f.otp, nil, "other-secret")
	_, err = other.ParseToken(token)
	assert.Equal(t, global.KindUnauthorized, global.KindOf(err))
}

func TestBlockedUsersAreRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token, err := f.auth.IssueToken(f.bob)
	require.NoError(t, err)

	blocked := *f.bob
	blocked.IsBlocked = true
	require.NoError(t, f.users.Update(ctx, &blocked))

	_, err = f.auth.Authenticate(ctx, token)
	assert.Equal(t, global.KindForbidden, global.KindOf(err))
}

func sentCode(t *testing.T, f *fixture) string {
	t.Helper()
	sent := f.outbox.Sent()
	require.NotEmpty(t, sent)
	html := sent[len(sent)-1].HTML
	i := strings.Index(html, "<strong>")
	require.GreaterOrEqual(t, i, 0)
	return html[i+len("<strong>") : i+len("<strong>")+6]
}

func TestOTPLoginCreatesAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.otp.Send(ctx, PurposeSignup, "new@example.com"))
	code := sentCode(t, f)
	assert.Len(t, code, 6)

	assert.Error(t, f.otp.Verify(ctx, PurposeSignup, "new@example.com", "000000x"))
	require.NoError(t, f.otp.Verify(ctx, PurposeSignup, "new@example.com", code))

	resp, err := f.auth.Login(ctx, &models.LoginRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Name)

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "new@example.com"})
	assert.Contains(t, err.Error(), "OTP not verified", "the verified marker is single use")
}

func TestOTPExpiryAndAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.otp.Send(ctx, PurposeSignup, "a@example.com"))
	code := sentCode(t, f)
	f.otpStore.Now = func() time.Time { return time.Now().Add(otpTTL + time.Second) }
	err := f.otp.Verify(ctx, PurposeSignup, "a@example.com", code)
	assert.Contains(t, err.Error(), "expired")
	f.otpStore.Now = time.Now

	require.NoError(t, f.otp.Send(ctx, PurposeSignup, "a@example.com"))
	code = sentCode(t, f)
	for i := 0; i < maxOTPAttempts; i++ {
		assert.Contains(t, f.otp.Verify(ctx, PurposeSignup, "a@example.com", "bad").Error(), "Invalid OTP")
	}
	err = f.otp.Verify(ctx, PurposeSignup, "a@example.com", code)
	assert.Contains(t, err.Error(), "Too many attempts")
}

func TestOTPSendFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.otp.Send(ctx, PurposeReset, "ghost@example.com")
	assert.True(t, global.IsNotFound(err))

	f.outbox.Err = errors.New("smtp down")
	err = f.otp.Send(ctx, PurposeSignup, "a@example.com")
	assert.Equal(t, global.KindInternal, global.KindOf(err))
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.auth.ResetPassword(ctx, &models.ResetPasswordRequest{Email: f.alice.Email, Password: "newpass"})
	assert.Equal(t, global.KindForbidden, global.KindOf(err))

	require.NoError(t, f.otp.Send(ctx, PurposeReset, f.alice.Email))
	require.NoError(t, f.otp.Verify(ctx, PurposeReset, f.alice.Email, sentCode(t, f)))
	require.NoError(t, f.auth.ResetPassword(ctx, &models.ResetPasswordRequest{Email: f.alice.Email, Password: "newpass"}))

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: f.alice.Email, Password: "newpass"})
	assert.NoError(t, err)
}

func TestChangePasswordAndProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp, err := f.auth.Register(ctx, &models.RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "first1"})
	require.NoError(t, err)
	user, err := f.users.GetByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)

	err = f.auth.ChangePassword(ctx, user, &models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "second2"})
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
	require.NoError(t, f.auth.ChangePassword(ctx, user, &models.ChangePasswordRequest{CurrentPassword: "first1", NewPassword: "second2"}))
	user, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)

	updated, err := f.auth.UpdateProfile(ctx, user, &models.UpdateProfileRequest{Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, updated.ID)
	assert.Equal(t, "9876543210", updated.Phone)
	assert.Equal(t, "Ravi", updated.Name)

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "ravi@example.com", Password: "second2"})
	assert.NoError(t, err)
}

func TestGoogleSignup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.GoogleSignup(ctx, "cred")
	assert.Equal(t, global.KindUnavailable, global.KindOf(err))

	verifier := &IDTokenVerifier{audience: "client", validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "good" || audience != "client" {
			return nil, errors.New("bad token")
		}
		return &idtoken.Payload{Claims: map[string]interface{}{
			"email": "Priya@Gmail.com", "name": "Priya", "email_verified": true,
		}}, nil
	}}
	f.auth.google = verifier

	resp, err := f.auth.GoogleSignup(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "priya@gmail.com", resp.Email)
	assert.True(t, resp.GoogleSignup)

	again, err := f.auth.GoogleSignup(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)

	_, err = f.auth.GoogleSignup(ctx, "forged")
	assert.Equal(t, global.KindUnauthorized, global.KindOf(err))
}
