package handlers

import (
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
	log             *logger.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, log: log}
}

// CustomerDeleteResponse is returned by both customer delete endpoints
type CustomerDeleteResponse struct {
	Success bool `json:"success"`
	*services.CustomerDeleteResult
}

// List lists customers
// @Summary List customers
// @Tags Customers
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} ListResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.customerService.List(c.Context(), pagination.ListLimit(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(customers))
	for _, cust := range customers {
		out = append(out, cust.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// GetByID gets a customer
// @Summary Get customer
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} response.ErrorBody
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	customer, err := h.customerService.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: customer.ToResponse()})
}

// Create registers a customer
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param body body services.CreateCustomerInput true "Customer data"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req services.CreateCustomerInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	customer, err := h.customerService.Create(c.Context(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Created(c, ItemResponse{Item: customer.ToResponse()})
}

// Patch updates the supplied fields of a customer
// @Summary Patch customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param body body services.PatchCustomerInput true "Fields to change"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /customers/{id} [patch]
func (h *CustomerHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	var req services.PatchCustomerInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	customer, err := h.customerService.Patch(c.Context(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: customer.ToResponse()})
}

// Tickets lists a customer's tickets
// @Summary List customer tickets
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} ListResponse
// @Failure 404 {object} response.ErrorBody
// @Router /customers/{id}/tickets [get]
func (h *CustomerHandler) Tickets(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	tickets, err := h.customerService.Tickets(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// DeleteTickets removes every ticket of a customer with their payments
// @Summary Delete customer tickets
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} CustomerDeleteResponse
// @Failure 404 {object} response.ErrorBody
// @Router /customers/{id}/tickets [delete]
func (h *CustomerHandler) DeleteTickets(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	result, err := h.customerService.DeleteTickets(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, CustomerDeleteResponse{Success: true, CustomerDeleteResult: result})
}

// Delete removes a customer with its tickets and payments
// @Summary Delete customer
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} CustomerDeleteResponse
// @Failure 404 {object} response.ErrorBody
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	result, err := h.customerService.Delete(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, CustomerDeleteResponse{Success: true, CustomerDeleteResult: result})
}
