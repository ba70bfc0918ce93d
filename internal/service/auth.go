package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const tokenTTL = 30 * 24 * time.Hour

// Claims carried by every bearer token.
type Claims struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  UserStore
	otp    *OTPService
	google GoogleVerifier
	secret []byte
	now    func() time.Time
}

// NewAuthService accepts a nil GoogleVerifier; Google sign-up then answers 503.
func NewAuthService(users UserStore, otp *OTPService, google GoogleVerifier, secret string) *AuthService {
	return &AuthService{
		users:  users,
		otp:    otp,
		google: google,
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", global.Internal("failed to sign token", err)
	}
	return signed, nil
}

func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, global.Unauthorized("Unauthorized: Token expired")
		}
		return nil, global.Unauthorized("Unauthorized: Invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, global.Unauthorized("Unauthorized: Invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to a current, unblocked user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	id, err := bson.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, global.Unauthorized("Unauthorized: Invalid token")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if global.IsNotFound(err) {
			return nil, global.Unauthorized("Unauthorized: User no longer exists")
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, global.Forbidden("Your account has been blocked")
	}
	return user, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		ID:           user.ID.Hex(),
		Email:        user.Email,
		Name:         user.Name,
		IsAdmin:      user.IsAdmin,
		Address:      user.Address,
		Phone:        user.Phone,
		GoogleSignup: user.GoogleSignup,
		Token:        token,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := global.NormalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, global.BadRequest("User already exists, please login!").WithField("email", "duplicate")
	} else if !global.IsNotFound(err) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Password: hash,
		Address:  req.Address,
		Phone:    req.Phone,
	}
	user.SetTimestamps()
	if err := s.users.Create(ctx, user); err != nil {
		if global.IsConflict(err) {
			return nil, global.BadRequest("User already exists, please login!").WithField("email", "duplicate")
		}
		return nil, err
	}
	return s.respond(user)
}

// Login accepts either a password or a prior OTP verification of the address.
// The first OTP login for an unknown address creates the account.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := global.NormalizeEmail(req.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !global.IsNotFound(err) {
		return nil, err
	}

	if user == nil {
		verified, err := s.otp.Consume(ctx, PurposeSignup, email)
		if err != nil {
			return nil, err
		}
		if !verified {
			return nil, global.BadRequest("User not found").WithField("email", "not_found")
		}
		user = &models.User{Name: strings.Split(email, "@")[0], Email: email}
		user.SetTimestamps()
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return s.respond(user)
	}

	if user.IsBlocked {
		return nil, global.Forbidden("Your account has been blocked")
	}

	if req.Password != "" {
		if !user.HasPassword() {
			return nil, global.BadRequest("Invalid credentials format")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			return nil, global.BadRequest("Username or password is invalid")
		}
		return s.respond(user)
	}

	verified, err := s.otp.Consume(ctx, PurposeSignup, email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, global.BadRequest("OTP not verified for this email").WithField("otp", "not_verified")
	}
	return s.respond(user)
}

func (s *AuthService) GoogleSignup(ctx context.Context, credential string) (*models.AuthResponse, error) {
	if s.google == nil {
		return nil, global.Unavailable("Google sign-up is not configured")
	}
	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	if !identity.EmailVerified {
		return nil, global.Unauthorized("Google account e-mail is not verified")
	}

	email := global.NormalizeEmail(identity.Email)
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsBlocked {
			return nil, global.Forbidden("Your account has been blocked")
		}
	case global.IsNotFound(err):
		user = &models.User{Name: identity.Name, Email: email, GoogleSignup: true}
		user.SetTimestamps()
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.respond(user)
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller *models.User, req *models.UpdateProfileRequest) (*models.AuthResponse, error) {
	user := *caller
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	user.SetTimestamps()
	if err := s.users.Update(ctx, &user); err != nil {
		return nil, err
	}
	return s.respond(&user)
}

// ChangePassword requires the current password unless the account has none
// (OTP and Google accounts).
func (s *AuthService) ChangePassword(ctx context.Context, caller *models.User, req *models.ChangePasswordRequest) error {
	if caller.HasPassword() {
		if bcrypt.CompareHashAndPassword([]byte(caller.Password), []byte(req.CurrentPassword)) != nil {
			return global.BadRequest("Current password is incorrect").WithField("currentPassword", "invalid")
		}
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user := *caller
	user.Password = hash
	user.SetTimestamps()
	return s.users.Update(ctx, &user)
}

// ResetPassword spends a reset verification marker.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	email := global.NormalizeEmail(req.Email)
	verified, err := s.otp.Consume(ctx, PurposeReset, email)
	if err != nil {
		return err
	}
	if !verified {
		return global.Forbidden("OTP not verified for this email")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	user.Password = hash
	user.SetTimestamps()
	return s.users.Update(ctx, user)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", global.Internal("failed to hash password", err)
	}
	return string(hash), nil
}
