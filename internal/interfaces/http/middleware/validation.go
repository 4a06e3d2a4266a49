package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/cosecha/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupValidatorOnce sync.Once

// SetupValidator registers JSON field naming and the domain validators on
// gin's binding engine. It is safe to call more than once.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("producer_order_status", validateProducerOrderStatus)
	})
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := trade.ParsePaymentMethod(fl.Field().String())
	return err == nil
}

func validateProducerOrderStatus(fl validator.FieldLevel) bool {
	s := trade.ProducerOrderStatus(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	return s.IsValid()
}

// ValidationDetails converts a binding error into per-field messages.
// Non-validation errors (malformed JSON, wrong types) yield nil.
func ValidationDetails(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return details
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "payment_method":
		return "Must be one of: CARD, BANK_TRANSFER, BIZUM, CASH_ON_DELIVERY"
	case "producer_order_status":
		return "Must be one of: PENDING, IN_PROCESS, SHIPPED, DELIVERED, CANCELLED"
	default:
		return "Invalid value"
	}
}
