package handlers

import (
	"bytes"
	"fmt"
	"time"

	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TicketHandler handles pawn ticket endpoints
type TicketHandler struct {
	ticketService *services.TicketService
	reportService *services.ReportService
	log           *logger.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *services.TicketService, reportService *services.ReportService, log *logger.Logger) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		reportService: reportService,
		log:           log,
	}
}

// TicketDeleteResponse is returned by DELETE /pawn-tickets/:id
type TicketDeleteResponse struct {
	Success         bool  `json:"success"`
	DeletedPayments int64 `json:"deletedPayments"`
}

// List lists pawn tickets
// @Summary List pawn tickets
// @Tags PawnTickets
// @Produce json
// @Param status query string false "Filter by contract status"
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} ListResponse
// @Failure 400 {object} response.ErrorBody
// @Router /pawn-tickets [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	tickets, err := h.ticketService.List(c.Context(), c.Query("status"), pagination.ListLimit(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// Issue creates a pawn ticket
// @Summary Issue pawn ticket
// @Description Checks customer, employee and item in that order before inserting
// @Tags PawnTickets
// @Accept json
// @Produce json
// @Param body body services.IssueTicketInput true "Ticket data"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /pawn-tickets [post]
func (h *TicketHandler) Issue(c *fiber.Ctx) error {
	var req services.IssueTicketInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	ticket, err := h.ticketService.Issue(c.Context(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Created(c, ItemResponse{Item: ticket.ToResponse()})
}

// Detail returns a ticket with its customer, item, employee, appraisal, payments and disposition
// @Summary Get pawn ticket detail
// @Tags PawnTickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} services.TicketDetailResponse
// @Failure 404 {object} response.ErrorBody
// @Router /pawn-tickets/{id}/detail [get]
func (h *TicketHandler) Detail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	detail, err := h.ticketService.Detail(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, detail.ToResponse())
}

// Payments lists the payments of a ticket
// @Summary List ticket payments
// @Tags PawnTickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} ListResponse
// @Failure 404 {object} response.ErrorBody
// @Router /pawn-tickets/{id}/payments [get]
func (h *TicketHandler) Payments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	payments, err := h.ticketService.Payments(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// Patch updates a ticket's status, due date, rate or amount
// @Summary Patch pawn ticket
// @Tags PawnTickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param body body services.PatchTicketInput true "Fields to change"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /pawn-tickets/{id} [patch]
func (h *TicketHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	var req services.PatchTicketInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	ticket, err := h.ticketService.Patch(c.Context(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: ticket.ToResponse()})
}

// Delete removes a ticket and its payments
// @Summary Delete pawn ticket
// @Tags PawnTickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} TicketDeleteResponse
// @Failure 404 {object} response.ErrorBody
// @Router /pawn-tickets/{id} [delete]
func (h *TicketHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	deleted, err := h.ticketService.Delete(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, TicketDeleteResponse{Success: true, DeletedPayments: deleted})
}

// Export downloads every ticket as an XLSX workbook
// @Summary Export pawn tickets
// @Tags PawnTickets
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} response.ErrorBody
// @Router /pawn-tickets/export [get]
func (h *TicketHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.reportService.ExportTickets(c.Context(), &buf); err != nil {
		return fail(c, h.log, err)
	}

	filename := fmt.Sprintf("pawn-tickets-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
