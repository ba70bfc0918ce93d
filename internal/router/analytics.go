package router

import (
	"github.com/gin-gonic/gin"
)

const topProductsLimit = 10

func (h *Handler) RevenueTrend(c *gin.Context) {
	points, err := h.Analytics.RevenueTrend(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, points)
}

func (h *Handler) TopProducts(c *gin.Context) {
	products, err := h.Analytics.TopProducts(c.Request.Context(), topProductsLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, products)
}

func (h *Handler) AISalesReport(c *gin.Context) {
	report, err := h.Reports.SalesReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, report)
}

func (h *Handler) AIFeedbackReport(c *gin.Context) {
	report, err := h.Reports.FeedbackReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, report)
}
