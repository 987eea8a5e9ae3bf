package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Dashboard stats
// @Description  Total and current-month spending, category count and the five most recent expenses.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  models.DashboardStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/dashboard/stats [get]
// @Security     BearerAuth
func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.services.Dashboard(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, "stats_dashboard_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Spending by category
// @Tags         stats
// @Produce      json
// @Success      200  {array}   models.CategoryStat
// @Failure      500  {object}  errorResponse
// @Router       /api/stats/categories [get]
// @Security     BearerAuth
func (h *Handler) categoryStats(c *gin.Context) {
	stats, err := h.services.Stats.ByCategory(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, "stats_categories_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Monthly spending
// @Description  Totals per YYYY-MM for the last six months, oldest first.
// @Tags         stats
// @Produce      json
// @Success      200  {array}   models.MonthlyStat
// @Failure      500  {object}  errorResponse
// @Router       /api/stats/monthly [get]
// @Security     BearerAuth
func (h *Handler) monthlyStats(c *gin.Context) {
	stats, err := h.services.Stats.Monthly(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, "stats_monthly_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, stats)
}
