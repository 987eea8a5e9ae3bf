package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"expenso/internal/models"

	"github.com/gin-gonic/gin"
)

type expenseRequest struct {
	Amount      models.Cents `json:"amount" binding:"required" swaggertype:"number" example:"12.50"`
	Description string       `json:"description" binding:"required" example:"Lunch"`
	CategoryID  int          `json:"category_id" binding:"required" example:"1"`
	Date        models.Date  `json:"date" swaggertype:"string" example:"2025-03-14"`
}

func (r expenseRequest) input() models.ExpenseInput {
	return models.ExpenseInput{
		Amount:      r.Amount,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Date:        r.Date,
	}
}

// parseExpenseFilter reads category_id, from, to, q, limit and offset.
// Dates are YYYY-MM-DD; both bounds are inclusive.
func parseExpenseFilter(c *gin.Context) (models.ExpenseFilter, error) {
	var (
		f   models.ExpenseFilter
		err error
	)
	if f.CategoryID, err = queryInt(c, "category_id"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		return f, err
	}
	if qs := c.Query("from"); qs != "" {
		if f.From, err = models.ParseDate(qs); err != nil {
			return f, fmt.Errorf("invalid 'from': %w", err)
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = models.ParseDate(qs); err != nil {
			return f, fmt.Errorf("invalid 'to': %w", err)
		}
	}
	f.Query = c.Query("q")
	return f, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	qs := c.Query(key)
	if qs == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(qs)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s': must be an integer", key)
	}
	return v, nil
}

// @Summary      List expenses
// @Description  Caller's expenses joined with category_name, newest date first.
// @Tags         expenses
// @Produce      json
// @Param        category_id  query     int     false  "only this category"
// @Param        from         query     string  false  "first date (YYYY-MM-DD), inclusive"  example(2025-03-01)
// @Param        to           query     string  false  "last date (YYYY-MM-DD), inclusive"   example(2025-03-31)
// @Param        q            query     string  false  "case-insensitive match on description or category name"
// @Param        limit        query     int     false  "page size, max 1000"
// @Param        offset       query     int     false  "rows to skip, requires limit"
// @Success      200          {array}   models.Expense
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/expenses [get]
// @Security     BearerAuth
func (h *Handler) listExpenses(c *gin.Context) {
	f, err := parseExpenseFilter(c)
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.services.Expenses.List(c.Request.Context(), userID(c), f)
	if err != nil {
		h.writeError(c, "expense_list_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      int  true  "expense id"
// @Success      200  {object}  models.Expense
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/expenses/{id} [get]
// @Security     BearerAuth
func (h *Handler) getExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := h.services.Expenses.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.writeError(c, "expense_get_failed", err, "user_id", userID(c), "id", id)
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary      Create expense
// @Description  category_id must be one of the caller's categories. A missing date means today.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        input  body      expenseRequest  true  "expense"
// @Success      201    {object}  createdResponse
// @Failure      400    {object}  errorResponse  "invalid category or validation error"
// @Failure      500    {object}  errorResponse
// @Router       /api/expenses [post]
// @Security     BearerAuth
func (h *Handler) createExpense(c *gin.Context) {
	var req expenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	id, err := h.services.Expenses.Create(c.Request.Context(), userID(c), req.input())
	if err != nil {
		h.writeError(c, "expense_create_failed", err, "user_id", userID(c), "category_id", req.CategoryID)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{Message: "Expense created successfully", ID: id})
}

// @Summary      Update expense
// @Description  Updating an expense the caller does not own is a no-op and still returns 200.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id     path      int             true  "expense id"
// @Param        input  body      expenseRequest  true  "expense"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/expenses/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req expenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Expenses.Update(c.Request.Context(), userID(c), id, req.input()); err != nil {
		h.writeError(c, "expense_update_failed", err, "user_id", userID(c), "id", id)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Expense updated successfully"})
}

// @Summary      Delete expense
// @Description  Idempotent; deleting a missing or foreign expense returns 200.
// @Tags         expenses
// @Produce      json
// @Param        id   path      int  true  "expense id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/expenses/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.Expenses.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.writeError(c, "expense_delete_failed", err, "user_id", userID(c), "id", id)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Expense deleted successfully"})
}

// @Summary      Export expenses
// @Description  Same filters as the listing; returns a CSV or XLSX attachment.
// @Tags         expenses
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format       query     string  false  "file format"  Enums(csv, xlsx)
// @Param        category_id  query     int     false  "only this category"
// @Param        from         query     string  false  "first date (YYYY-MM-DD)"
// @Param        to           query     string  false  "last date (YYYY-MM-DD)"
// @Param        q            query     string  false  "text match"
// @Success      200          {file}    file
// @Failure      400          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/expenses/export [get]
// @Security     BearerAuth
func (h *Handler) exportExpenses(c *gin.Context) {
	f, err := parseExpenseFilter(c)
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	file, err := h.services.Export(c.Request.Context(), userID(c), f, c.Query("format"))
	if err != nil {
		h.writeError(c, "expense_export_failed", err, "user_id", userID(c))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
