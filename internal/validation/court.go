// Package validation checks and normalizes court submissions before they reach storage.
// It does no I/O: given the raw fields of a request it returns either a clean
// models.CourtFields or the full list of problems, one entry per offending field.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/trentd187/pickleball-directory/internal/apperror"
	"github.com/trentd187/pickleball-directory/internal/images"
	"github.com/trentd187/pickleball-directory/internal/models"
)

// phonePattern allows digits, spaces, hyphens and parentheses only.
var phonePattern = regexp.MustCompile(`^[0-9 ()-]+$`)

// CourtInput is the raw submission extracted from a POST or PUT body.
// Absent text fields arrive as ""; Picture is nil when the body had no picture field.
type CourtInput struct {
	Name              string
	Address           string
	Hours             string
	CourtsDescription string
	Amenities         string
	Phone             string
	Parking           string
	Fees              string
	Picture           *string
}

// courtSchema is what the validator actually inspects. Field order here is the
// order errors are reported in; json names are what the client sees.
type courtSchema struct {
	Name              string `json:"name" validate:"required"`
	Address           string `json:"address" validate:"required"`
	Hours             string `json:"hours" validate:"required"`
	CourtsDescription string `json:"courtsDescription" validate:"required"`
	Amenities         string `json:"amenities" validate:"required"`
	Phone             string `json:"phone" validate:"required,phone"`
	Parking           string `json:"parking" validate:"required"`
	Fees              string `json:"fees" validate:"required"`
	Picture           string `json:"picture" validate:"inlineimage"`
}

// requiredMessages is the human-readable text for each missing field.
var requiredMessages = map[string]string{
	"name":              "Court name is required",
	"address":           "Address is required",
	"hours":             "Hours are required",
	"courtsDescription": "Court information is required",
	"amenities":         "Amenities are required",
	"phone":             "Phone number is required",
	"parking":           "Parking information is required",
	"fees":              "Fee information is required",
}

const (
	phoneFormatMessage   = "Phone number must contain only digits, spaces, dashes, and parentheses"
	pictureFormatMessage = "Picture must be an inline image reference (<mime-type>;base64,<data>)"
)

// validate is built once; a *validator.Validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name ("courtsDescription", not "CourtsDescription").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	// Errors from RegisterValidation only happen for empty tag names or baked-in tags.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("inlineimage", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || images.IsInlineReference(s)
	})
	return v
}

// FieldError is one violated rule on one field.
type FieldError struct {
	Field   string        // wire name, e.g. "phone"
	Kind    apperror.Kind // KindMissingField or KindInvalidFormat
	Message string        // e.g. "Phone number is required"
}

// String renders the error as it appears in a response's details array.
func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// Errors is every field error found in one submission. It implements error so
// Court can return it through the usual error path.
type Errors []FieldError

func (e Errors) Error() string {
	return "validation failed: " + strings.Join(e.Details(), "; ")
}

// Details returns the client-facing list, one string per field error.
func (e Errors) Details() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.String()
	}
	return out
}

// Fields returns the names of the offending fields, in report order.
func (e Errors) Fields() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.Field
	}
	return out
}

// Court trims and validates a submission. Every field is checked; on failure
// the returned error is an Errors listing all of them.
func Court(in CourtInput) (models.CourtFields, error) {
	out := models.CourtFields{
		Name:              strings.TrimSpace(in.Name),
		Address:           strings.TrimSpace(in.Address),
		Hours:             strings.TrimSpace(in.Hours),
		CourtsDescription: strings.TrimSpace(in.CourtsDescription),
		Amenities:         strings.TrimSpace(in.Amenities),
		Phone:             strings.TrimSpace(in.Phone),
		Parking:           strings.TrimSpace(in.Parking),
		Fees:              strings.TrimSpace(in.Fees),
		Picture:           in.Picture, // passed through unchanged
	}

	schema := courtSchema{
		Name:              out.Name,
		Address:           out.Address,
		Hours:             out.Hours,
		CourtsDescription: out.CourtsDescription,
		Amenities:         out.Amenities,
		Phone:             out.Phone,
		Parking:           out.Parking,
		Fees:              out.Fees,
	}
	if in.Picture != nil {
		schema.Picture = *in.Picture
	}

	err := validate.Struct(schema)
	if err == nil {
		return out, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable on a programming error (e.g. passing a non-struct).
		return models.CourtFields{}, apperror.Wrap(apperror.KindUnexpected, "validate court", err)
	}

	result := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, toFieldError(fe))
	}
	return models.CourtFields{}, result
}

// toFieldError translates a validator failure into our taxonomy and wording.
func toFieldError(fe validator.FieldError) FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return FieldError{Field: field, Kind: apperror.KindMissingField, Message: requiredMessages[field]}
	case "phone":
		return FieldError{Field: field, Kind: apperror.KindInvalidFormat, Message: phoneFormatMessage}
	case "inlineimage":
		return FieldError{Field: field, Kind: apperror.KindInvalidFormat, Message: pictureFormatMessage}
	default:
		return FieldError{Field: field, Kind: apperror.KindInvalidFormat, Message: field + " is invalid"}
	}
}
