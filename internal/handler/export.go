package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/export"
	"github.com/takaruma7/MIW-sub002/internal/model"
	"github.com/takaruma7/MIW-sub002/internal/repository"
)

// ExportHandler serves the manifest/roster/kelengkapan exports. It joins
// the pilgrims of a package with their room assignments and projects the
// result through the export package.
type ExportHandler struct {
	Packages    *repository.PackageRepo
	Pilgrims    *repository.PilgrimRepo
	Assignments *repository.RoomAssignmentRepo
}

func NewExportHandler(pk *repository.PackageRepo, pl *repository.PilgrimRepo, ra *repository.RoomAssignmentRepo) *ExportHandler {
	return &ExportHandler{Packages: pk, Pilgrims: pl, Assignments: ra}
}

// packagePart is the header block every export response carries.
type packagePart struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	DepartureDate string          `json:"departure_date"` // d/m/Y
	HotelMedinah  string          `json:"hotel_medinah"`
	HotelMakkah   string          `json:"hotel_makkah"`
	HCN           model.HCNRecord `json:"hcn"`
}

type exportData struct {
	Package      packagePart              `json:"package"`
	Manifest     []export.ManifestRow     `json:"manifest"`
	MedinahRooms []export.RosterRow       `json:"medinah_rooms"`
	MekkahRooms  []export.RosterRow       `json:"mekkah_rooms"`
	Kelengkapan  []export.CompletenessRow `json:"kelengkapan"`
}

// Export handles POST /v1/admin/export. The form carries pak_id and
// export_type (manifest, roomlist or kelengkapan); only the sections the
// requested type needs are built.
func (h *ExportHandler) Export(c echo.Context) error {
	pakID := strings.TrimSpace(c.FormValue("pak_id"))
	exportType := strings.TrimSpace(c.FormValue("export_type"))

	if pakID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "pak_id is required",
		})
	}
	switch exportType {
	case "manifest", "roomlist", "kelengkapan":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "export_type must be manifest, roomlist or kelengkapan",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pkg, err := h.Packages.GetByID(ctx, pakID)
	if err != nil {
		if err == repository.ErrPackageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("export: load package %s: %v", pakID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "export failed",
		})
	}

	pilgrims, err := h.Pilgrims.ListByPackage(ctx, pakID)
	if err != nil {
		c.Logger().Errorf("export: list pilgrims %s: %v", pakID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "export failed",
		})
	}

	data := exportData{
		Package: packagePart{
			Name:          pkg.Name,
			Type:          pkg.Category,
			DepartureDate: pkg.DepartureDate.Format("02/01/2006"),
			HotelMedinah:  pkg.HotelMedinah,
			HotelMakkah:   pkg.HotelMakkah,
			HCN:           pkg.HCN,
		},
		Manifest:     []export.ManifestRow{},
		MedinahRooms: []export.RosterRow{},
		MekkahRooms:  []export.RosterRow{},
		Kelengkapan:  []export.CompletenessRow{},
	}

	switch exportType {
	case "manifest", "roomlist":
		assignments, err := h.Assignments.MapByPackage(ctx, pakID)
		if err != nil {
			c.Logger().Errorf("export: load assignments %s: %v", pakID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "message": "export failed",
			})
		}
		entries := make([]export.Entry, 0, len(pilgrims))
		for _, p := range pilgrims {
			entries = append(entries, export.Entry{
				Pilgrim:    p,
				Assignment: assignments[p.NIK],
			})
		}
		if exportType == "manifest" {
			data.Manifest = export.BuildManifest(entries, time.Now().UTC())
		} else {
			data.MedinahRooms = export.BuildRoster(entries, export.CityMedinah)
			data.MekkahRooms = export.BuildRoster(entries, export.CityMakkah)
		}
	case "kelengkapan":
		data.Kelengkapan = export.BuildCompleteness(pilgrims)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    data,
	})
}
