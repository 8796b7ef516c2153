package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/caixasimples/caixa_simples_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for aggregate reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/cashflow", h.getCashflowSummary)
	}
}

// getCashflowSummary godoc
// @Summary Get cashflow summary
// @Description Aggregates entries, paid expenses and supplier payments over an inclusive date range
// @Tags reports
// @Produce json
// @Param from query string true "Inclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashflowSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/cashflow [get]
func (h *reportingHandler) getCashflowSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.CashflowSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	from, _ := time.Parse("2006-01-02", params.From)
	to, _ := time.Parse("2006-01-02", params.To)

	summary, err := h.reportingService.GetCashflowSummary(c.Request.Context(), from, to, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCashflowSummaryResponse(summary))
}
