package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/internal/service"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *Handler) GoogleSignup(c *gin.Context) {
	var req models.GoogleSignupRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Auth.GoogleSignup(c.Request.Context(), req.Credential)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *Handler) Profile(c *gin.Context) {
	ok(c, currentUser(c))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Auth.UpdateProfile(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), currentUser(c), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Password changed successfully"))
}

func (h *Handler) SendSignupOTP(c *gin.Context) {
	h.sendOTP(c, service.PurposeSignup)
}

func (h *Handler) VerifySignupOTP(c *gin.Context) {
	h.verifyOTP(c, service.PurposeSignup)
}

func (h *Handler) SendResetOTP(c *gin.Context) {
	h.sendOTP(c, service.PurposeReset)
}

func (h *Handler) VerifyResetOTP(c *gin.Context) {
	h.verifyOTP(c, service.PurposeReset)
}

func (h *Handler) sendOTP(c *gin.Context, purpose string) {
	var req models.OTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.OTP.Send(c.Request.Context(), purpose, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("OTP sent successfully"))
}

func (h *Handler) verifyOTP(c *gin.Context, purpose string) {
	var req models.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.OTP.Verify(c.Request.Context(), purpose, req.Email, req.OTP); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("OTP verified successfully"))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Password reset successfully"))
}

func (h *Handler) SendContactEmail(c *gin.Context) {
	var req models.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Contact.Send(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Email sent successfully"))
}
