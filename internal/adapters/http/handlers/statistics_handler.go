package handlers

import (
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatisticsHandler handles dashboard endpoints
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
	log               *logger.Logger
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statisticsService *services.StatisticsService, log *logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, log: log}
}

// GetStatistics returns shop-wide totals
// @Summary Get statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} services.Statistics
// @Failure 500 {object} response.ErrorBody
// @Router /statistics [get]
func (h *StatisticsHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.statisticsService.GetStatistics(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, stats)
}

// TopCustomers ranks customers by ticket count, then total loan
// @Summary Top customers
// @Tags Statistics
// @Produce json
// @Param limit query int false "Max rows" default(5)
// @Success 200 {object} ListResponse
// @Failure 500 {object} response.ErrorBody
// @Router /top-customers [get]
func (h *StatisticsHandler) TopCustomers(c *fiber.Ctx) error {
	limit := pagination.GetLimit(c, services.TopCustomersDefault, services.TopCustomersMax)

	ranking, err := h.statisticsService.TopCustomers(c.Context(), limit)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ListResponse{Items: ranking})
}
