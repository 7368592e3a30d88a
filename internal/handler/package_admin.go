package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/model"
	"github.com/takaruma7/MIW-sub002/internal/repository"
)

// PackageAdminHandler serves the admin CRUD for pilgrimage packages.
type PackageAdminHandler struct {
	Packages *repository.PackageRepo
}

func NewPackageAdminHandler(pk *repository.PackageRepo) *PackageAdminHandler {
	return &PackageAdminHandler{Packages: pk}
}

// packageReq is the admin payload for create and update. Unknown fields
// are rejected so a typoed inventory key never silently drops rooms.
type packageReq struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	DepartureDate string              `json:"departure_date"` // Y-m-d
	HotelMedinah  string              `json:"hotel_medinah"`
	HotelMakkah   string              `json:"hotel_makkah"`
	Rooms         model.RoomInventory `json:"room_inventory"`
	Prices        model.PriceList     `json:"prices"`
	HCN           model.HCNRecord     `json:"hcn"`
}

func decodePackageReq(c echo.Context) (*packageReq, string) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, "cannot read body"
	}
	var req packageReq
	if err := model.DecodeStrict(body, &req); err != nil {
		return nil, "invalid package payload: " + err.Error()
	}
	return &req, ""
}

func (req *packageReq) toModel() (*model.Package, string) {
	missing := make([]string, 0)
	for name, v := range map[string]string{
		"id": req.ID, "name": req.Name, "category": req.Category,
		"departure_date": req.DepartureDate,
		"hotel_medinah":  req.HotelMedinah, "hotel_makkah": req.HotelMakkah,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, "missing required fields: " + strings.Join(missing, ", ")
	}
	if req.Category != "Hajj" && req.Category != "Umroh" {
		return nil, "category must be Hajj or Umroh"
	}
	departure, err := time.ParseInLocation("2006-01-02", req.DepartureDate, time.UTC)
	if err != nil {
		return nil, "departure_date must be Y-m-d"
	}
	return &model.Package{
		ID:            strings.TrimSpace(req.ID),
		Name:          req.Name,
		Category:      req.Category,
		DepartureDate: departure,
		HotelMedinah:  req.HotelMedinah,
		HotelMakkah:   req.HotelMakkah,
		Rooms:         req.Rooms,
		Prices:        req.Prices,
		HCN:           req.HCN,
	}, ""
}

// Create handles POST /v1/admin/packages.
func (h *PackageAdminHandler) Create(c echo.Context) error {
	req, msg := decodePackageReq(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}
	pkg, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Packages.Create(ctx, pkg); err != nil {
		if err == repository.ErrDuplicateRoomCode {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false, "message": "room codes must be unique within a hotel",
			})
		}
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{
				"success": false, "message": "package id already exists",
			})
		}
		c.Logger().Errorf("packages: create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "create package failed",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": packageView(pkg, true)})
}

// Update handles PUT /v1/admin/packages/:id.
func (h *PackageAdminHandler) Update(c echo.Context) error {
	req, msg := decodePackageReq(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}
	req.ID = c.Param("id")
	pkg, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Packages.Update(ctx, pkg); err != nil {
		switch err {
		case repository.ErrDuplicateRoomCode:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false, "message": "room codes must be unique within a hotel",
			})
		case repository.ErrPackageNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("packages: update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "update package failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "package updated"})
}

// Get handles GET /v1/admin/packages/:id. Admins see the full record
// including the HCN block.
func (h *PackageAdminHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pkg, err := h.Packages.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrPackageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("packages: get: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "load package failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": packageView(pkg, true)})
}

// List handles GET /v1/admin/packages.
func (h *PackageAdminHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pkgs, err := h.Packages.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("packages: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "list packages failed",
		})
	}
	out := make([]echo.Map, 0, len(pkgs))
	for i := range pkgs {
		out = append(out, packageView(&pkgs[i], true))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

// Delete handles DELETE /v1/admin/packages/:id.
func (h *PackageAdminHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Packages.Delete(ctx, c.Param("id")); err != nil {
		switch err {
		case repository.ErrPackageInUse:
			return c.JSON(http.StatusConflict, echo.Map{
				"success": false, "message": "package still has registered pilgrims",
			})
		case repository.ErrPackageNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("packages: delete: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "delete package failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "package deleted"})
}

// packageView renders one package. withHCN is false on the public
// surface, where the certificate numbers stay private.
func packageView(p *model.Package, withHCN bool) echo.Map {
	view := echo.Map{
		"id":             p.ID,
		"name":           p.Name,
		"category":       p.Category,
		"departure_date": p.DepartureDate.Format("2006-01-02"),
		"hotel_medinah":  p.HotelMedinah,
		"hotel_makkah":   p.HotelMakkah,
		"room_inventory": p.Rooms,
		"prices":         p.Prices,
	}
	if withHCN {
		view["hcn"] = p.HCN
	}
	return view
}
