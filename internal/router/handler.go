package router

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/internal/service"
	"isvaryam.com/storefront/pkg/ai"
	"isvaryam.com/storefront/pkg/global"
)

// Services are the dependencies the HTTP layer calls into.
type Services struct {
	Auth      *service.AuthService
	OTP       *service.OTPService
	Contact   *service.ContactService
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Coupons   *service.CouponService
	Orders    *service.OrderService
	Payments  *service.PaymentService
	Reviews   *service.ReviewService
	Wishlist  *service.WishlistService
	Recipes   *service.RecipeService
	Analytics *service.AnalyticsService
	Reports   *ai.Reporter
	// Ping reports backing store health; nil means always healthy.
	Ping      func(ctx context.Context) error
}

type Handler struct {
	Services
}

func NewHandler(s Services) *Handler {
	return &Handler{Services: s}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			log.Error().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Database connection failed", nil))
			return
		}
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

// respondError writes err in the error envelope with the status for its kind.
func respondError(c *gin.Context, err error) {
	var appErr *global.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Internal server error", nil))
		return
	}

	message := appErr.Message
	switch appErr.Kind {
	case global.KindInternal:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	case global.KindGateway:
		// surface the gateway's own error description
		message = appErr.Error()
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("payment gateway error")
	}

	var details []global.ValidationError
	if appErr.Field != "" {
		details = []global.ValidationError{{Field: appErr.Field, Message: appErr.Message, Code: appErr.Code}}
	}
	c.JSON(appErr.Status(), global.ErrorResponse(message, details))
}

// bindJSON decodes the body into dst, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body", validationErrors(err)))
		return false
	}
	return true
}

func validationErrors(err error) []global.ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []global.ValidationError{{Field: "body", Message: err.Error(), Code: "json_parse_error"}}
	}

	out := make([]global.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		out = append(out, global.ValidationError{
			Field:   field,
			Message: field + " failed the " + fe.Tag() + " check",
			Code:    fe.Tag(),
		})
	}
	return out
}

// validation errors report the json field name rather than the Go one
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, global.SuccessResponse(data))
}
