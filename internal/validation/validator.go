package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
)

var (
	validate *validator.Validate
	initOnce sync.Once

	// Anchored patterns; partial matches are not accepted.
	e164Pattern        = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	orderNumberPattern = regexp.MustCompile(`^CF\d{9}$`)
)

// FieldErrors maps an offending field to the rule it broke. It satisfies the
// error interface so services can return it directly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, rule := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, rule))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func instance() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterValidation("e164ish", func(fl validator.FieldLevel) bool {
			return e164Pattern.MatchString(fl.Field().String())
		})
		validate.RegisterValidation("ordernumber", func(fl validator.FieldLevel) bool {
			return orderNumberPattern.MatchString(fl.Field().String())
		})
		validate.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
			return model.UserRole(fl.Field().String()).IsValid()
		})
		validate.RegisterValidation("productcategory", func(fl validator.FieldLevel) bool {
			return model.ProductCategory(fl.Field().String()).IsValid()
		})
		validate.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return model.PaymentMethod(fl.Field().String()).IsValid()
		})
		validate.RegisterValidation("ordertype", func(fl validator.FieldLevel) bool {
			return model.OrderType(fl.Field().String()).IsValid()
		})
		validate.RegisterValidation("inventoryunit", func(fl validator.FieldLevel) bool {
			return model.InventoryUnit(fl.Field().String()).IsValid()
		})
		validate.RegisterValidation("inventorylocation", func(fl validator.FieldLevel) bool {
			return model.InventoryLocation(fl.Field().String()).IsValid()
		})
	})
	return validate
}

// Validate checks an entity against its declared schema before it is allowed
// into persistent storage. Returns nil when valid, FieldErrors otherwise.
func Validate(entity interface{}) error {
	err := instance().Struct(entity)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(FieldErrors, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fieldPath(fe)] = ruleMessage(fe)
	}
	return fields
}

// fieldPath strips the top-level struct name: "Order.Items[0].Quantity"
// instead of repeating the entity type.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "e164ish":
		return "must be a valid phone number"
	case "ordernumber":
		return "must match CF followed by nine digits"
	case "userrole", "productcategory", "paymentmethod", "ordertype",
		"inventoryunit", "inventorylocation":
		return "is not in the allowed set"
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}
