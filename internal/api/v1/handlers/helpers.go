package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"taskflow-backend/internal/models"
	"taskflow-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = newValidator()

// newValidator membuat validator yang melaporkan nama field sesuai tag json,
// supaya param pada response validasi cocok dengan field request.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError adalah satu butir kesalahan validasi pada response 400.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

func fieldError(msg, param string) FieldError {
	return FieldError{Msg: msg, Param: param, Location: "body"}
}

// translateValidation mengubah error validator menjadi bentuk
// {errors: [{msg, param, location}]}.
func translateValidation(err error) []FieldError {
	var out []FieldError
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out = append(out, fieldError(validationMessage(fe), fe.Field()))
		}
		return out
	}
	return []FieldError{fieldError(err.Error(), "")}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return "Valid email is required"
	case "oneof":
		if fe.Field() == "priority" {
			return "Priority must be low, medium, or high"
		}
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func validationError(c *fiber.Ctx, errs []FieldError) error {
	logger.AuditLogger.Warn("Validation error", zap.Any("errors", errs))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msg})
}

// serverError mencatat detail ke log dan menjawab 500 generik.
// Detail store error tidak pernah dibocorkan ke caller.
func serverError(c *fiber.Ctx, logMsg string, err error) error {
	logger.ErrorLogger.Error(logMsg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}

// userID mengambil identitas caller yang sudah di-resolve middleware.
func userID(c *fiber.Ctx) int {
	return c.Locals("userID").(int)
}

// nullIfEmpty menormalkan string kosong menjadi NULL saat disimpan,
// supaya description yang dikirim "" kembali sebagai null.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDueDate memvalidasi dueDate: format YYYY-MM-DD, tanggal kalender
// yang valid, dan tidak boleh sebelum hari ini.
func parseDueDate(value string) (time.Time, error) {
	if !dateRE.MatchString(value) {
		return time.Time{}, errors.New("Due date must be in YYYY-MM-DD format")
	}
	d, err := time.ParseInLocation(models.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, errors.New("Due date must be a valid date")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if d.Before(today) {
		return time.Time{}, errors.New("Due date cannot be in the past")
	}
	return d, nil
}
