package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/scanbridge/scanbridge/internal/usecase"
)

type Controller interface {
	Scan(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	orchestrator usecase.ScanOrchestrator
}

func NewHandler(orchestrator usecase.ScanOrchestrator) Controller {
	return &controller{
		orchestrator: orchestrator,
	}
}

type ScanRequest struct {
	EAN string `json:"ean" validate:"required"`
}

type ScanResponse struct {
	Message   string          `json:"message"`
	Outcome   string          `json:"outcome"`
	FromCache bool            `json:"from_cache,omitempty"`
	Product   *models.Product `json:"product,omitempty"`
}

func (h *controller) Scan(c echo.Context) error {
	serviceName := c.Param("serviceName")

	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	result, err := h.orchestrator.Scan(ctx, serviceName, req.EAN)
	switch {
	case err == nil:

	case errors.Is(err, models.ErrInvalidEAN):
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%q is not a valid EAN-8 or EAN-13 code", req.EAN))

	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown service %q", serviceName))

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, scanResponse(result))
}

func scanResponse(result *models.ScanResult) ScanResponse {
	resp := ScanResponse{
		Outcome:   string(result.Outcome),
		FromCache: result.FromCache,
		Product:   result.Product,
	}
	switch result.Outcome {
	case models.ScanAdded:
		resp.Message = fmt.Sprintf("added %s to the shopping list", result.Product.Name)
	case models.ScanSkipped:
		resp.Message = fmt.Sprintf("%s is already on the shopping list", result.Product.Name)
	case models.ScanAwaitingManualEntry:
		resp.Message = "product unknown, manual entry requested via chat"
	}
	return resp
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "scanbridge",
	})
}
