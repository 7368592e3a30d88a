package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/repository"
)

// PublicHandler serves the unauthenticated catalog. Responses omit the
// HCN block; certificate numbers are back-office data. The router puts
// the Redis response cache in front of these routes.
type PublicHandler struct {
	Packages *repository.PackageRepo
}

func NewPublicHandler(pk *repository.PackageRepo) *PublicHandler {
	return &PublicHandler{Packages: pk}
}

// ListPackages handles GET /v1/packages.
func (h *PublicHandler) ListPackages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pkgs, err := h.Packages.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("public: list packages: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "list packages failed",
		})
	}
	out := make([]echo.Map, 0, len(pkgs))
	for i := range pkgs {
		out = append(out, packageView(&pkgs[i], false))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

// GetPackage handles GET /v1/packages/:id.
func (h *PublicHandler) GetPackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pkg, err := h.Packages.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrPackageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("public: get package: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "load package failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": packageView(pkg, false)})
}
