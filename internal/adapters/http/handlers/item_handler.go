package handlers

import (
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles pawn item endpoints
type ItemHandler struct {
	itemService *services.ItemService
	log         *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *services.ItemService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{itemService: itemService, log: log}
}

// IntakeResponse is the body returned by POST /pawn-items
type IntakeResponse struct {
	Item      interface{} `json:"item"`
	Appraisal interface{} `json:"appraisal,omitempty"`
}

// List lists pawn items
// @Summary List pawn items
// @Description List pawn items, newest first
// @Tags PawnItems
// @Produce json
// @Param status query string false "Filter by item status"
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} ListResponse
// @Failure 400 {object} response.ErrorBody
// @Router /pawn-items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.itemService.List(c.Context(), c.Query("status"), pagination.ListLimit(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// GetByID gets a pawn item
// @Summary Get pawn item
// @Tags PawnItems
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} response.ErrorBody
// @Router /pawn-items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	item, err := h.itemService.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: item.ToResponse()})
}

// Intake creates a pawn item, with an appraisal when employeeId is given
// @Summary Intake pawn item
// @Description Create an item; with employeeId the item and its appraisal are written atomically
// @Tags PawnItems
// @Accept json
// @Produce json
// @Param body body services.IntakeItemInput true "Item data"
// @Success 201 {object} IntakeResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /pawn-items [post]
func (h *ItemHandler) Intake(c *fiber.Ctx) error {
	var req services.IntakeItemInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	result, err := h.itemService.Intake(c.Context(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}

	resp := IntakeResponse{Item: result.Item.ToResponse()}
	if result.Appraisal != nil {
		resp.Appraisal = result.Appraisal.ToResponse()
	}
	return response.Created(c, resp)
}

// Patch updates an item's status, value or description fields
// @Summary Patch pawn item
// @Tags PawnItems
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param body body services.PatchItemInput true "Fields to change"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /pawn-items/{id} [patch]
func (h *ItemHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	var req services.PatchItemInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	item, err := h.itemService.Patch(c.Context(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: item.ToResponse()})
}
