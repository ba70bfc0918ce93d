package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.Cart.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, cart)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.Cart.Add(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, cart)
}

// RemoveFromCart answers with the remaining cart, or an empty one when the
// last line went.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	cart, err := h.Cart.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId"), c.Param("size"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, cart)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Cart.Clear(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Cart cleared"))
}

func (h *Handler) AddToWishlist(c *gin.Context) {
	var req models.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.Wishlist.Add(c.Request.Context(), currentUser(c).ID, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, item)
}

func (h *Handler) GetWishlist(c *gin.Context) {
	items, err := h.Wishlist.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, items)
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	if err := h.Wishlist.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Removed from wishlist"))
}
