package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/model"
	"github.com/takaruma7/MIW-sub002/internal/repository"
)

// ManifestHandler serves the room assignment update the manifest admin
// uses to place pilgrims into rooms.
type ManifestHandler struct {
	Packages    *repository.PackageRepo
	Pilgrims    *repository.PilgrimRepo
	Assignments *repository.RoomAssignmentRepo
}

func NewManifestHandler(pk *repository.PackageRepo, pl *repository.PilgrimRepo, ra *repository.RoomAssignmentRepo) *ManifestHandler {
	return &ManifestHandler{Packages: pk, Pilgrims: pl, Assignments: ra}
}

// UpdateRoom handles POST /v1/admin/manifest. All required fields are
// validated up front and reported together, so the admin fixes a form
// once instead of replaying it per field. The write is an idempotent
// upsert on (nik, pak_id); a missing relation keeps any stored value.
func (h *ManifestHandler) UpdateRoom(c echo.Context) error {
	fields := map[string]string{
		"nik":            strings.TrimSpace(c.FormValue("nik")),
		"pak_id":         strings.TrimSpace(c.FormValue("pak_id")),
		"room_prefix":    strings.TrimSpace(c.FormValue("room_prefix")),
		"medinah_number": strings.TrimSpace(c.FormValue("medinah_number")),
		"mekkah_number":  strings.TrimSpace(c.FormValue("mekkah_number")),
	}
	missing := make([]string, 0)
	for _, name := range []string{"nik", "pak_id", "room_prefix", "medinah_number", "mekkah_number"} {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "missing required fields: " + strings.Join(missing, ", "),
			"fields":  missing,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Packages.GetByID(ctx, fields["pak_id"]); err != nil {
		if err == repository.ErrPackageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("manifest: load package: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "room update failed",
		})
	}
	pilgrim, err := h.Pilgrims.GetByNIK(ctx, fields["nik"])
	if err != nil {
		if err == repository.ErrPilgrimNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "pilgrim not found",
			})
		}
		c.Logger().Errorf("manifest: load pilgrim: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "room update failed",
		})
	}
	if pilgrim.PakID != fields["pak_id"] {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false, "message": "pilgrim is not registered under this package",
		})
	}

	assignment := &model.RoomAssignment{
		NIK:           fields["nik"],
		PakID:         fields["pak_id"],
		RoomCode:      fields["room_prefix"],
		MedinahNumber: fields["medinah_number"],
		MekkahNumber:  fields["mekkah_number"],
	}
	if rel := strings.TrimSpace(c.FormValue("relation")); rel != "" {
		assignment.Relation = &rel
	}

	tx, err := h.Packages.DB().BeginTx(ctx, nil)
	if err != nil {
		c.Logger().Errorf("manifest: begin tx: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "room update failed",
		})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Assignments.UpsertTx(ctx, tx, assignment); err != nil {
		c.Logger().Errorf("manifest: upsert assignment: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "room update failed",
		})
	}
	if err := tx.Commit(); err != nil {
		c.Logger().Errorf("manifest: commit: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "room update failed",
		})
	}
	committed = true

	// Read back the effective row so the response reflects what is
	// stored, including a relation kept from an earlier submission.
	effective, err := h.Assignments.GetByPair(ctx, fields["nik"], fields["pak_id"])
	if err != nil {
		c.Logger().Errorf("manifest: read back assignment: %v", err)
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "room assignment updated",
		})
	}
	relation := ""
	if effective.Relation != nil {
		relation = *effective.Relation
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "room assignment updated",
		"data": echo.Map{
			"nik":            effective.NIK,
			"pak_id":         effective.PakID,
			"room_code":      effective.RoomCode,
			"medinah_number": effective.MedinahNumber,
			"mekkah_number":  effective.MekkahNumber,
			"relation":       relation,
		},
	})
}
