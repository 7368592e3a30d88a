package handler

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/model"
	"github.com/takaruma7/MIW-sub002/internal/queue"
	"github.com/takaruma7/MIW-sub002/internal/repository"
	queue_publisher "github.com/takaruma7/MIW-sub002/internal/service"
	"github.com/takaruma7/MIW-sub002/internal/storage"
)

// RegistrationHandler serves the public registration form. One accepted
// submission creates the pilgrim and a pending invoice in a single
// transaction and then notifies the broker.
type RegistrationHandler struct {
	Packages *repository.PackageRepo
	Pilgrims *repository.PilgrimRepo
	Invoices *repository.InvoiceRepo
	Uploads  *storage.Store
	validate *validator.Validate
}

func NewRegistrationHandler(pk *repository.PackageRepo, pl *repository.PilgrimRepo, inv *repository.InvoiceRepo, st *storage.Store) *RegistrationHandler {
	v := validator.New()
	// Report form field names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return &RegistrationHandler{
		Packages: pk,
		Pilgrims: pl,
		Invoices: inv,
		Uploads:  st,
		validate: v,
	}
}

// registerForm mirrors the multipart fields of the registration form.
// Dates arrive as Y-m-d strings and are parsed after validation.
type registerForm struct {
	NIK             string `form:"nik" validate:"required,len=16,numeric"`
	PakID           string `form:"pak_id" validate:"required"`
	Name            string `form:"name" validate:"required"`
	Sex             string `form:"sex" validate:"required,oneof=M F"`
	BirthPlace      string `form:"birth_place" validate:"required"`
	BirthDate       string `form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	PassportName    string `form:"passport_name"`
	PassportNumber  string `form:"passport_number"`
	PassportIssued  string `form:"passport_issued" validate:"omitempty,datetime=2006-01-02"`
	PassportExpires string `form:"passport_expires" validate:"omitempty,datetime=2006-01-02"`
	FatherName      string `form:"father_name"`
	MarketingName   string `form:"marketing_name"`
	Address         string `form:"address" validate:"required"`
	SpecialRequest  string `form:"special_request"`
	RoomCategory    string `form:"room_category" validate:"required,oneof=Quad Triple Double"`
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// fieldErrors flattens validator output into "field: rule" strings so
// the client sees every problem at once.
func fieldErrors(err error) []string {
	out := make([]string, 0)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out = append(out, fmt.Sprintf("%s: failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return out
	}
	return append(out, err.Error())
}

// Register handles POST /v1/register.
func (h *RegistrationHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "invalid form data",
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "validation failed",
			"errors":  fieldErrors(err),
		})
	}
	proof, err := c.FormFile("payment_proof")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false, "message": "payment_proof file is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	pkg, err := h.Packages.GetByID(ctx, form.PakID)
	if err != nil {
		if err == repository.ErrPackageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false, "message": "package not found",
			})
		}
		c.Logger().Errorf("register: load package: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "registration failed",
		})
	}

	var amount uint64
	switch form.RoomCategory {
	case "Quad":
		amount = pkg.Prices.Quad
	case "Triple":
		amount = pkg.Prices.Triple
	case "Double":
		amount = pkg.Prices.Double
	}

	base := fmt.Sprintf("%s_payment_%d", form.NIK, time.Now().UTC().Unix())
	proofPath, err := h.Uploads.Save(proof, "payments", base)
	if err != nil {
		switch err {
		case storage.ErrInvalidType:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false, "message": "payment_proof: file type not allowed",
			})
		case storage.ErrTooLarge:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false, "message": "payment_proof: file too large",
			})
		}
		c.Logger().Errorf("register: store proof: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "registration failed",
		})
	}

	pilgrim := &model.Pilgrim{
		NIK:             form.NIK,
		PakID:           form.PakID,
		Name:            form.Name,
		Sex:             form.Sex,
		BirthPlace:      form.BirthPlace,
		BirthDate:       parseDate(form.BirthDate),
		PassportName:    form.PassportName,
		PassportNumber:  form.PassportNumber,
		PassportIssued:  parseDate(form.PassportIssued),
		PassportExpires: parseDate(form.PassportExpires),
		FatherName:      form.FatherName,
		MarketingName:   form.MarketingName,
		Address:         form.Address,
		SpecialRequest:  form.SpecialRequest,
		RoomCategory:    form.RoomCategory,
	}
	invoice := &model.Invoice{
		NIK:          form.NIK,
		PakID:        form.PakID,
		AmountCents:  amount,
		PaymentProof: proofPath,
		Status:       "PENDING",
	}

	tx, err := h.Pilgrims.DB().BeginTx(ctx, nil)
	if err != nil {
		c.Logger().Errorf("register: begin tx: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "registration failed",
		})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Pilgrims.CreateTx(ctx, tx, pilgrim); err != nil {
		if err == repository.ErrNIKExists {
			return c.JSON(http.StatusConflict, echo.Map{
				"success": false, "message": "nik already registered",
			})
		}
		c.Logger().Errorf("register: insert pilgrim: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "registration failed",
		})
	}
	if err := h.Invoices.CreateTx(ctx, tx, invoice); err != nil {
		c.Logger().Errorf("register: insert invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "registration failed",
		})
	}
	if err := tx.Commit(); err != nil {
		c.Logger().Errorf("register: commit: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "registration failed",
		})
	}
	committed = true

	// Best effort: a lost notification never fails a committed
	// registration.
	_ = queue_publisher.PublishRegistrationReceived(ctx, queue.RegistrationReceivedEvent{
		NIK:          pilgrim.NIK,
		Name:         pilgrim.Name,
		PakID:        pkg.ID,
		PackageName:  pkg.Name,
		RoomCategory: pilgrim.RoomCategory,
		AmountCents:  amount,
		PaymentProof: proofPath,
		ReceivedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "registration received",
		"data": echo.Map{
			"nik":          pilgrim.NIK,
			"pak_id":       pkg.ID,
			"invoice_id":   invoice.ID,
			"amount_cents": amount,
			"status":       invoice.Status,
		},
	})
}
