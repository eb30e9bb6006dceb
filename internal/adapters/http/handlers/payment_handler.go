package handlers

import (
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	log            *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, log: log}
}

// PaymentResponse is the body returned by POST /payments
type PaymentResponse struct {
	Payment interface{} `json:"payment"`
	Ticket  interface{} `json:"ticket"`
}

// Create records a payment against a ticket
// @Summary Record payment
// @Description Also served at POST /payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body services.CreatePaymentInput true "Payment data"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req services.CreatePaymentInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	result, err := h.paymentService.Create(c.Context(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}

	return response.Created(c, PaymentResponse{
		Payment: result.Payment.ToResponse(),
		Ticket:  result.Ticket.ToResponse(),
	})
}
