package handlers

import (
	"strconv"

	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ListResponse wraps every list endpoint
type ListResponse struct {
	Items interface{} `json:"items"`
}

// ItemResponse wraps single-record endpoints
type ItemResponse struct {
	Item interface{} `json:"item"`
}

// DeleteResponse is returned by delete endpoints that report nothing else
type DeleteResponse struct {
	Success bool `json:"success"`
}

// parseID reads the :id route param as a positive 32-bit id
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into out; any decode failure is bad_request
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.ErrBadRequest.Wrap(err)
	}
	return nil
}

// fail renders err and logs it when it is not a domain error
func fail(c *fiber.Ctx, log *logger.Logger, err error) error {
	return response.FromError(c, log, err)
}
