package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) CreateReview(c *gin.Context) {
	var req models.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.Reviews.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(review))
}

func (h *Handler) ListReviews(c *gin.Context) {
	respondReviews(c)(h.Reviews.List(c.Request.Context()))
}

func (h *Handler) RecentReviews(c *gin.Context) {
	respondReviews(c)(h.Reviews.Recent(c.Request.Context()))
}

func (h *Handler) ReviewsByCategory(c *gin.Context) {
	respondReviews(c)(h.Reviews.ByCategory(c.Request.Context(), c.Param("category")))
}

func (h *Handler) ReviewsByDate(c *gin.Context) {
	respondReviews(c)(h.Reviews.ByDate(c.Request.Context(), c.Param("date")))
}

func (h *Handler) ReviewsByProduct(c *gin.Context) {
	respondReviews(c)(h.Reviews.ByProduct(c.Request.Context(), c.Param("productId")))
}

func respondReviews(c *gin.Context) func([]models.Review, error) {
	return func(reviews []models.Review, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, reviews)
	}
}

func (h *Handler) AverageRatings(c *gin.Context) {
	ratings, err := h.Reviews.AverageRatings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, ratings)
}

func (h *Handler) RatingDistribution(c *gin.Context) {
	distribution, err := h.Reviews.Distribution(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, distribution)
}

func (h *Handler) RatingSummary(c *gin.Context) {
	summary, err := h.Reviews.Summary(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, summary)
}

func (h *Handler) AddReply(c *gin.Context) {
	var req models.ReplyRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.Reviews.AddReply(c.Request.Context(), currentUser(c), c.Param("reviewId"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, review)
}

func (h *Handler) UpdateReply(c *gin.Context) {
	var req models.ReplyRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.Reviews.UpdateReply(c.Request.Context(), c.Param("reviewId"), c.Param("replyId"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, review)
}
