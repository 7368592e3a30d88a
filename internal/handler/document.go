package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/export"
	"github.com/takaruma7/MIW-sub002/internal/model"
	"github.com/takaruma7/MIW-sub002/internal/repository"
	"github.com/takaruma7/MIW-sub002/internal/storage"
)

// DocumentHandler serves the document batch upload and the per-package
// completeness matrix.
type DocumentHandler struct {
	Packages *repository.PackageRepo
	Pilgrims *repository.PilgrimRepo
	Uploads  *storage.Store
}

func NewDocumentHandler(pk *repository.PackageRepo, pl *repository.PilgrimRepo, st *storage.Store) *DocumentHandler {
	return &DocumentHandler{Packages: pk, Pilgrims: pl, Uploads: st}
}

// Upload handles POST /v1/documents. The batch is all-or-nothing: every
// one of the seven slots must carry a file or nothing is stored and no
// timestamp is written.
func (h *DocumentHandler) Upload(c echo.Context) error {
	nik := strings.TrimSpace(c.FormValue("nik"))
	if nik == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "nik is required",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "multipart form required",
		})
	}

	missing := make([]string, 0)
	for _, slot := range model.DocumentSlots {
		if len(form.File[slot]) == 0 {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "All documents must be uploaded in one request; missing: " + strings.Join(missing, ", "),
			"missing": missing,
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
		c.Logger().Errorf("documents: load pilgrim: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "document upload failed",
		})
	}

	now := time.Now().UTC()
	batch := make([]storage.BatchItem, 0, len(model.DocumentSlots))
	for _, slot := range model.DocumentSlots {
		batch = append(batch, storage.BatchItem{
			Field: slot,
			File:  form.File[slot][0],
			Base:  fmt.Sprintf("%s_%s_%d", nik, slot, now.Unix()),
		})
	}
	// All seven files validate before the first write, so a rejected
	// batch stores nothing.
	stored, err := h.Uploads.SaveBatch("documents", batch)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidType) || errors.Is(err, storage.ErrTooLarge) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false, "message": err.Error(),
			})
		}
		c.Logger().Errorf("documents: store batch: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "document upload failed",
		})
	}

	tx, err := h.Pilgrims.DB().BeginTx(ctx, nil)
	if err != nil {
		c.Logger().Errorf("documents: begin tx: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "document upload failed",
		})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Pilgrims.StampDocumentsTx(ctx, tx, nik, now); err != nil {
		c.Logger().Errorf("documents: stamp timestamps: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "document upload failed",
		})
	}
	if err := tx.Commit(); err != nil {
		c.Logger().Errorf("documents: commit: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "document upload failed",
		})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "documents uploaded",
		"files":   stored,
	})
}

// Completeness handles GET /v1/admin/packages/:id/kelengkapan and
// returns the per-pilgrim document presence matrix of one package.
func (h *DocumentHandler) Completeness(c echo.Context) error {
	pakID := strings.TrimSpace(c.Param("id"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Packages.GetByID(ctx, pakID); err != nil {
		if err == repository.ErrPackageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("kelengkapan: load package: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "completeness lookup failed",
		})
	}

	pilgrims, err := h.Pilgrims.ListByPackage(ctx, pakID)
	if err != nil {
		c.Logger().Errorf("kelengkapan: list pilgrims: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "completeness lookup failed",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"slots":       model.DocumentSlots,
			"kelengkapan": export.BuildCompleteness(pilgrims),
		},
	})
}
