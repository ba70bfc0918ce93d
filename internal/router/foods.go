package router

import (
	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) ListFoods(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, products)
}

func (h *Handler) FoodsByCategory(c *gin.Context) {
	products, err := h.Catalog.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, products)
}

func (h *Handler) SearchFoods(c *gin.Context) {
	products, err := h.Catalog.Search(c.Request.Context(), c.Param("searchTerm"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, products)
}

// GetFood looks a product up by its productId through the redis cache.
func (h *Handler) GetFood(c *gin.Context) {
	product, hit, err := h.Catalog.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	ok(c, product)
}

func (h *Handler) GetFoodByID(c *gin.Context) {
	product, err := h.Catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, product)
}

func (h *Handler) CreateFood(c *gin.Context) {
	var req models.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.Catalog.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, product)
}

// UpdateFood takes the product's document id in the body.
func (h *Handler) UpdateFood(c *gin.Context) {
	var req models.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ID == "" {
		respondError(c, global.BadRequest("Product id is required").WithField("id", "required"))
		return
	}
	product, err := h.Catalog.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, product)
}

func (h *Handler) DeleteFood(c *gin.Context) {
	product, err := h.Catalog.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, product)
}
