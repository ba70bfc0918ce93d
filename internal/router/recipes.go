package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.Recipes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, recipes)
}

func (h *Handler) GetRecipe(c *gin.Context) {
	recipe, err := h.Recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, recipe)
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	var req models.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.Recipes.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(recipe))
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	var req models.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.Recipes.Update(c.Request.Context(), currentUser(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, recipe)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	if err := h.Recipes.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Recipe deleted"))
}

func (h *Handler) LikeRecipe(c *gin.Context) {
	h.setLike(c, true)
}

func (h *Handler) UnlikeRecipe(c *gin.Context) {
	h.setLike(c, false)
}

func (h *Handler) setLike(c *gin.Context, liked bool) {
	recipe, err := h.Recipes.SetLike(c.Request.Context(), currentUser(c), c.Param("id"), liked)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, recipe)
}

func (h *Handler) RateRecipe(c *gin.Context) {
	var req models.RecipeRatingRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.Recipes.Rate(c.Request.Context(), currentUser(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, recipe)
}
