package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	minDeliveryAddressLength = 5

	tagPhone           = "phone"
	tagDeliveryAddress = "delivery_address"
)

// North American numbers: optional +1, area code and exchange with optional
// parentheses and separators.
var phonePattern = regexp.MustCompile(`^(\+?1[\s.-]?)?(\([2-9]\d{2}\)|[2-9]\d{2})[\s.-]?\d{3}[\s.-]?\d{4}$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Normalizer is implemented by requests that clean their own input before
// validation.
type Normalizer interface {
	Normalize()
}

type Validator struct {
	validate *validator.Validate
}

func New() (*Validator, error) {
	const op = "validation.New"

	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})

	if err := validate.RegisterValidation(tagPhone, validatePhone); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	validate.RegisterStructValidation(validateDeliveryAddress, OrderRequest{})

	return &Validator{
		validate: validate,
	}, nil
}

// ValidateStruct returns nil when value satisfies its rules. A pointer to a
// Normalizer is normalized in place first.
func (v *Validator) ValidateStruct(value any) []FieldError {
	if normalizer, ok := value.(Normalizer); ok {
		normalizer.Normalize()
	}

	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, FieldError{
			Field:   fieldPath(fieldErr.Namespace()),
			Message: message(fieldErr),
		})
	}

	return out
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateDeliveryAddress(sl validator.StructLevel) {
	request := sl.Current().Interface().(OrderRequest)

	if request.OrderType != "delivery" {
		return
	}

	if len([]rune(strings.TrimSpace(request.DeliveryAddress))) < minDeliveryAddressLength {
		sl.ReportError(request.DeliveryAddress, "deliveryAddress", "DeliveryAddress", tagDeliveryAddress, "")
	}
}

// fieldPath drops the root struct name: "OrderRequest.items[0].quantity"
// becomes "items[0].quantity".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return path
}

func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case tagPhone:
		return "must be a valid phone number"
	case tagDeliveryAddress:
		return fmt.Sprintf("is required for delivery orders (at least %d characters)", minDeliveryAddressLength)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	case "min", "gte":
		return boundMessage(fieldErr.Kind(), "at least", fieldErr.Param())
	case "max", "lte":
		return boundMessage(fieldErr.Kind(), "at most", fieldErr.Param())
	default:
		return "is invalid"
	}
}

func boundMessage(kind reflect.Kind, bound, param string) string {
	switch kind {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", bound, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", bound, param)
	default:
		return fmt.Sprintf("must be %s %s", bound, param)
	}
}
