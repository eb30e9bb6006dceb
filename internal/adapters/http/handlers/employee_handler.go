package handlers

import (
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	employeeService *services.EmployeeService
	log             *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, log: log}
}

// List lists employees
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} ListResponse
// @Router /employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.employeeService.List(c.Context(), pagination.ListLimit(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	out := make([]interface{}, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ToResponse())
	}
	return response.OK(c, ListResponse{Items: out})
}

// GetByID gets an employee
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} response.ErrorBody
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	employee, err := h.employeeService.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: employee.ToResponse()})
}

// Create creates an employee
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param body body services.EmployeeInput true "Employee data"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req services.EmployeeInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	employee, err := h.employeeService.Create(c.Context(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Created(c, ItemResponse{Item: employee.ToResponse()})
}

// Update replaces an employee
// @Summary Update employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param body body services.EmployeeInput true "Employee data"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	var req services.EmployeeInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	employee, err := h.employeeService.Update(c.Context(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: employee.ToResponse()})
}

// Patch updates the supplied fields of an employee
// @Summary Patch employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param body body services.PatchEmployeeInput true "Fields to change"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /employees/{id} [patch]
func (h *EmployeeHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	var req services.PatchEmployeeInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	employee, err := h.employeeService.Patch(c.Context(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, ItemResponse{Item: employee.ToResponse()})
}

// Delete removes an employee that no appraisal or ticket references
// @Summary Delete employee
// @Tags Employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.employeeService.Delete(c.Context(), id); err != nil {
		return fail(c, h.log, err)
	}
	return response.OK(c, DeleteResponse{Success: true})
}
