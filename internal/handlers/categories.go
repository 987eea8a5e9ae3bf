package handlers

import (
	"net/http"

	"expenso/internal/models"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required" example:"Travel"`
	Description string `json:"description" example:"Flights and hotels"`
}

func (r categoryRequest) input() models.CategoryInput {
	return models.CategoryInput{Name: r.Name, Description: r.Description}
}

// @Summary      List categories
// @Description  Caller's categories ordered by name, with expense_count and total_amount.
// @Tags         categories
// @Produce      json
// @Success      200  {array}   models.Category
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/categories [get]
// @Security     BearerAuth
func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.services.Categories.List(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, "category_list_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "category id"
// @Success      200  {object}  models.Category
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/categories/{id} [get]
// @Security     BearerAuth
func (h *Handler) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.services.Categories.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.writeError(c, "category_get_failed", err, "user_id", userID(c), "id", id)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        input  body      categoryRequest  true  "category"
// @Success      201    {object}  createdResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/categories [post]
// @Security     BearerAuth
func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	id, err := h.services.Categories.Create(c.Request.Context(), userID(c), req.input())
	if err != nil {
		h.writeError(c, "category_create_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusCreated, createdResponse{Message: "Category created successfully", ID: id})
}

// @Summary      Update category
// @Description  Updating a category the caller does not own is a no-op and still returns 200.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id     path      int              true  "category id"
// @Param        input  body      categoryRequest  true  "category"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/categories/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Categories.Update(c.Request.Context(), userID(c), id, req.input()); err != nil {
		h.writeError(c, "category_update_failed", err, "user_id", userID(c), "id", id)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Category updated successfully"})
}

// @Summary      Delete category
// @Description  Also deletes the category's expenses. Idempotent.
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "category id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/categories/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.Categories.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.writeError(c, "category_delete_failed", err, "user_id", userID(c), "id", id)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Category deleted successfully"})
}
