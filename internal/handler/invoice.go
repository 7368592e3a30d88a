package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/repository"
)

// InvoiceHandler serves the admin side of the payment lifecycle:
// listing a pilgrim's invoices and resolving pending ones. Resolution
// only flips the status; the pilgrim record is untouched either way,
// since a rejected payment is retried, not cancelled.
type InvoiceHandler struct {
	Invoices *repository.InvoiceRepo
}

func NewInvoiceHandler(inv *repository.InvoiceRepo) *InvoiceHandler {
	return &InvoiceHandler{Invoices: inv}
}

// List handles GET /v1/admin/invoices?nik=...
func (h *InvoiceHandler) List(c echo.Context) error {
	nik := strings.TrimSpace(c.QueryParam("nik"))
	if nik == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "nik query parameter is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	invoices, err := h.Invoices.ListByNIK(ctx, nik)
	if err != nil {
		c.Logger().Errorf("invoices: list %s: %v", nik, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "list invoices failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": invoices})
}

// Verify handles POST /v1/admin/invoices/:id/verify.
func (h *InvoiceHandler) Verify(c echo.Context) error {
	return h.resolve(c, "VERIFIED", "invoice verified")
}

// Reject handles POST /v1/admin/invoices/:id/reject.
func (h *InvoiceHandler) Reject(c echo.Context) error {
	return h.resolve(c, "REJECTED", "invoice rejected")
}

func (h *InvoiceHandler) resolve(c echo.Context, status, message string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "invalid invoice id",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Invoices.UpdateStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "invoice not found",
			})
		}
		c.Logger().Errorf("invoices: set %d %s: %v", id, status, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "update invoice failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message})
}
