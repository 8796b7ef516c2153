package handlers

import (
	"net/http"

	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/caixasimples/caixa_simples_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// marketplaceHandler handles HTTP requests related to marketplaces.
type marketplaceHandler struct {
	marketplaceService portssvc.MarketplaceSvcFacade
}

func newMarketplaceHandler(ms portssvc.MarketplaceSvcFacade) *marketplaceHandler {
	return &marketplaceHandler{marketplaceService: ms}
}

// registerMarketplaceRoutes registers routes related to marketplaces.
func registerMarketplaceRoutes(rg *gin.RouterGroup, marketplaceService portssvc.MarketplaceSvcFacade) {
	h := newMarketplaceHandler(marketplaceService)

	marketplaces := rg.Group("/marketplaces")
	{
		marketplaces.POST("", h.createMarketplace)
		marketplaces.GET("", h.listMarketplaces)
	}
}

// createMarketplace godoc
// @Summary Create a marketplace
// @Description Registers a new sales channel
// @Tags marketplaces
// @Accept json
// @Produce json
// @Param marketplace body dto.CreateMarketplaceRequest true "Marketplace details"
// @Success 201 {object} dto.MarketplaceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /marketplaces [post]
func (h *marketplaceHandler) createMarketplace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMarketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	marketplace, err := h.marketplaceService.CreateMarketplace(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMarketplaceResponse(marketplace))
}

// listMarketplaces godoc
// @Summary List marketplaces
// @Description Retrieves all registered sales channels
// @Tags marketplaces
// @Produce json
// @Success 200 {array} dto.MarketplaceResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /marketplaces [get]
func (h *marketplaceHandler) listMarketplaces(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	marketplaces, err := h.marketplaceService.ListMarketplaces(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	res := make([]dto.MarketplaceResponse, len(marketplaces))
	for i := range marketplaces {
		res[i] = dto.ToMarketplaceResponse(&marketplaces[i])
	}
	c.JSON(http.StatusOK, res)
}
