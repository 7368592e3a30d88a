package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/model"
	"github.com/takaruma7/MIW-sub002/internal/queue"
	"github.com/takaruma7/MIW-sub002/internal/repository"
	queue_publisher "github.com/takaruma7/MIW-sub002/internal/service"
	"github.com/takaruma7/MIW-sub002/internal/storage"
)

// CancellationHandler serves the withdrawal flow: public submission,
// admin listing and the verify/reject resolution endpoints.
type CancellationHandler struct {
	Pilgrims      *repository.PilgrimRepo
	Cancellations *repository.CancellationRepo
	Uploads       *storage.Store
}

func NewCancellationHandler(pl *repository.PilgrimRepo, cn *repository.CancellationRepo, st *storage.Store) *CancellationHandler {
	return &CancellationHandler{Pilgrims: pl, Cancellations: cn, Uploads: st}
}

// Submit handles POST /v1/cancellations. Both proof files are required:
// the payment proof and a scan of the requester's id.
func (h *CancellationHandler) Submit(c echo.Context) error {
	nik := strings.TrimSpace(c.FormValue("nik"))
	reason := strings.TrimSpace(c.FormValue("reason"))

	missing := make([]string, 0)
	if nik == "" {
		missing = append(missing, "nik")
	}
	if reason == "" {
		missing = append(missing, "reason")
	}
	proofPayment, err := c.FormFile("proof_payment")
	if err != nil {
		missing = append(missing, "proof_payment")
	}
	proofID, err := c.FormFile("proof_id")
	if err != nil {
		missing = append(missing, "proof_id")
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "missing required fields: " + strings.Join(missing, ", "),
			"fields":  missing,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if _, err := h.Pilgrims.GetByNIK(ctx, nik); err != nil {
		if err == repository.ErrPilgrimNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "pilgrim not found",
			})
		}
		c.Logger().Errorf("cancellation: load pilgrim: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "cancellation failed",
		})
	}

	now := time.Now().UTC().Unix()
	paymentPath, err := h.saveProof(proofPayment, fmt.Sprintf("%s_cancel_payment_%d", nik, now))
	if err != nil {
		return h.proofError(c, "proof_payment", err)
	}
	idPath, err := h.saveProof(proofID, fmt.Sprintf("%s_cancel_id_%d", nik, now))
	if err != nil {
		return h.proofError(c, "proof_id", err)
	}

	req := &model.Cancellation{
		NIK:          nik,
		Reason:       reason,
		ProofPayment: paymentPath,
		ProofID:      idPath,
	}
	if err := h.Cancellations.Create(ctx, req); err != nil {
		c.Logger().Errorf("cancellation: insert: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "cancellation failed",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "cancellation request received",
		"data":    echo.Map{"id": req.ID, "nik": req.NIK},
	})
}

func (h *CancellationHandler) saveProof(fh *multipart.FileHeader, base string) (string, error) {
	return h.Uploads.Save(fh, "cancellations", base)
}

func (h *CancellationHandler) proofError(c echo.Context, field string, err error) error {
	switch err {
	case storage.ErrInvalidType:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": field + ": file type not allowed",
		})
	case storage.ErrTooLarge:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": field + ": file too large",
		})
	}
	c.Logger().Errorf("cancellation: store %s: %v", field, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false, "message": "cancellation failed",
	})
}

// List handles GET /v1/admin/cancellations.
func (h *CancellationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	details, err := h.Cancellations.ListDetails(ctx)
	if err != nil {
		c.Logger().Errorf("cancellation: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "list failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": details})
}

// Verify handles POST /v1/admin/cancellations/:id/verify. The request
// and the originating pilgrim go away in one transaction; assignments
// and invoices follow via foreign key cascade.
func (h *CancellationHandler) Verify(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "invalid cancellation id",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	req, err := h.Cancellations.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCancellationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "cancellation not found",
			})
		}
		c.Logger().Errorf("cancellation: load %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "verification failed",
		})
	}
	pilgrim, err := h.Pilgrims.GetByNIK(ctx, req.NIK)
	if err != nil {
		c.Logger().Errorf("cancellation: load pilgrim %s: %v", req.NIK, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "verification failed",
		})
	}

	tx, err := h.Pilgrims.DB().BeginTx(ctx, nil)
	if err != nil {
		c.Logger().Errorf("cancellation: begin tx: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "verification failed",
		})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Cancellations.DeleteTx(ctx, tx, id); err != nil {
		c.Logger().Errorf("cancellation: delete request %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "verification failed",
		})
	}
	if err := h.Pilgrims.DeleteTx(ctx, tx, req.NIK); err != nil {
		c.Logger().Errorf("cancellation: delete pilgrim %s: %v", req.NIK, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "verification failed",
		})
	}
	if err := tx.Commit(); err != nil {
		c.Logger().Errorf("cancellation: commit: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "verification failed",
		})
	}
	committed = true

	_ = queue_publisher.PublishCancellationVerified(ctx, queue.CancellationVerifiedEvent{
		CancellationID: id,
		NIK:            req.NIK,
		Name:           pilgrim.Name,
		PakID:          pilgrim.PakID,
		Reason:         req.Reason,
		VerifiedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "cancellation verified",
	})
}

// Reject handles DELETE /v1/admin/cancellations/:id. Only the request is
// removed; the pilgrim stays registered.
func (h *CancellationHandler) Reject(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "invalid cancellation id",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Cancellations.Delete(ctx, id); err != nil {
		if err == repository.ErrCancellationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "cancellation not found",
			})
		}
		c.Logger().Errorf("cancellation: reject %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "rejection failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "cancellation rejected",
	})
}
