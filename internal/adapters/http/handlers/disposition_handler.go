package handlers

import (
	"strconv"

	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DispositionHandler handles disposition endpoints
type DispositionHandler struct {
	dispositionService *services.DispositionService
	log                *logger.Logger
}

// NewDispositionHandler creates a new disposition handler
func NewDispositionHandler(dispositionService *services.DispositionService, log *logger.Logger) *DispositionHandler {
	return &DispositionHandler{dispositionService: dispositionService, log: log}
}

// List lists dispositions
// @Summary List dispositions
// @Tags Dispositions
// @Produce json
// @Param item_id query int false "Filter by item ID"
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} ListResponse
// @Failure 400 {object} response.ErrorBody
// @Router /dispositions [get]
func (h *DispositionHandler) List(c *fiber.Ctx) error {
	var itemID uint
	if raw := c.Query("item_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return fail(c, h.log, domain.InvalidField("item_id"))
		}
		itemID = uint(id)
	}

	dispositions, err := h.dispositionService.List(c.Context(), itemID, pagination.ListLimit(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(dispositions))
	for _, d := range dispositions {
		out = append(out, d.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// GetByID gets a disposition
// @Summary Get disposition
// @Tags Dispositions
// @Produce json
// @Param id path int true "Disposition ID"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} response.ErrorBody
// @Router /dispositions/{id} [get]
func (h *DispositionHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	disposition, err := h.dispositionService.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: disposition.ToResponse()})
}

// Create records a disposition
// @Summary Record disposition
// @Tags Dispositions
// @Accept json
// @Produce json
// @Param body body services.DispositionInput true "Disposition data"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /dispositions [post]
func (h *DispositionHandler) Create(c *fiber.Ctx) error {
	var req services.DispositionInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	disposition, err := h.dispositionService.Create(c.Context(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Created(c, ItemResponse{Item: disposition.ToResponse()})
}

// Update replaces a disposition
// @Summary Update disposition
// @Tags Dispositions
// @Accept json
// @Produce json
// @Param id path int true "Disposition ID"
// @Param body body services.DispositionInput true "Disposition data"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /dispositions/{id} [put]
func (h *DispositionHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	var req services.DispositionInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	disposition, err := h.dispositionService.Update(c.Context(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: disposition.ToResponse()})
}

// Delete removes a disposition
// @Summary Delete disposition
// @Tags Dispositions
// @Produce json
// @Param id path int true "Disposition ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} response.ErrorBody
// @Router /dispositions/{id} [delete]
func (h *DispositionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.dispositionService.Delete(c.Context(), id); err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, DeleteResponse{Success: true})
}
