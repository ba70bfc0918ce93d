package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) ListCoupons(c *gin.Context) {
	coupons, err := h.Coupons.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, coupons)
}

func (h *Handler) GetCoupon(c *gin.Context) {
	coupon, err := h.Coupons.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, coupon)
}

func (h *Handler) CreateCoupon(c *gin.Context) {
	var req models.CouponRequest
	if !bindJSON(c, &req) {
		return
	}
	coupon, err := h.Coupons.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(coupon))
}

func (h *Handler) UpdateCoupon(c *gin.Context) {
	var req models.CouponRequest
	if !bindJSON(c, &req) {
		return
	}
	coupon, err := h.Coupons.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, coupon)
}

func (h *Handler) DeleteCoupon(c *gin.Context) {
	if err := h.Coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Coupon deleted"))
}

// ValidateCoupon runs the same checks order creation applies.
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if !bindJSON(c, &req) {
		return
	}
	evaluation, err := h.Coupons.Evaluate(c.Request.Context(), req.Code, req.Subtotal, currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, evaluation)
}
