// Package handlers contains HTTP route handler functions for the Pickleball Directory API.
// This file handles the /api/courts routes, the only mutable collection.
//
// Each exported function follows the "handler factory" pattern: it takes its dependencies
// (the court repository, the image encoder, a logger) and returns a fiber.Handler.
// This lets us inject them without global variables, and lets tests swap in a SQLite store.
//
// A create or update request moves through fixed stages, and the first failure ends it:
//
//	extract fields → encode image (if any) → validate → persist → respond
//
// Reads skip the middle stages and go straight from the repository to the response.
package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/trentd187/pickleball-directory/internal/apperror"
	"github.com/trentd187/pickleball-directory/internal/images"
	"github.com/trentd187/pickleball-directory/internal/models"
	"github.com/trentd187/pickleball-directory/internal/repository"
	"github.com/trentd187/pickleball-directory/internal/validation"
)

// pictureField is the form/JSON key for both the uploaded file and an inline reference.
const pictureField = "picture"

// courtsPath prefixes every court route.
const courtsPath = "/api/courts"

// CourtEnvelope is the response body of every mutating court endpoint.
type CourtEnvelope struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Court   *repository.CourtResponse `json:"court,omitempty"`
	Error   string                    `json:"error,omitempty"`
	Details []string                  `json:"details,omitempty"`
}

// courtJSON is the shape of a JSON request body. Pointers let us tell an absent
// field from an empty one (only picture actually needs that distinction).
type courtJSON struct {
	Name              *string `json:"name"`
	Address           *string `json:"address"`
	Hours             *string `json:"hours"`
	CourtsDescription *string `json:"courtsDescription"`
	Amenities         *string `json:"amenities"`
	Phone             *string `json:"phone"`
	Parking           *string `json:"parking"`
	Fees              *string `json:"fees"`
	Picture           *string `json:"picture"`
}

// GetCourts returns a handler for GET /api/courts.
func GetCourts(courts repository.Courts, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := courts.List(c.UserContext())
		if err != nil {
			return readError(c, logger, err)
		}
		return c.JSON(list)
	}
}

// GetCourt returns a handler for GET /api/courts/:id.
func GetCourt(courts repository.Courts, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		court, err := courts.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return readError(c, logger, err)
		}
		return c.JSON(court)
	}
}

// CreateCourt returns a handler for POST /api/courts.
// The body may be multipart (with an optional picture file), urlencoded, or JSON.
func CreateCourt(courts repository.Courts, enc *images.Encoder, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := prepareCourt(c, enc, logger, false)
		if err != nil {
			return writeError(c, logger, err)
		}

		created, err := courts.Create(c.UserContext(), fields)
		if err != nil {
			return writeError(c, logger, err)
		}

		return c.Status(fiber.StatusCreated).JSON(CourtEnvelope{
			Success: true,
			Message: "Court added successfully",
			Court:   &created,
		})
	}
}

// UpdateCourt returns a handler for PUT /api/courts/:id.
// PUT replaces every field, so the full field set must be present. The picture is the
// exception: with no new upload and no new inline reference the stored one is kept.
func UpdateCourt(courts repository.Courts, enc *images.Encoder, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := prepareCourt(c, enc, logger, true)
		if err != nil {
			return writeError(c, logger, err)
		}

		updated, err := courts.Update(c.UserContext(), c.Params("id"), fields)
		if err != nil {
			return writeError(c, logger, err)
		}

		return c.JSON(CourtEnvelope{Success: true, Court: &updated})
	}
}

// DeleteCourt returns a handler for DELETE /api/courts/:id.
func DeleteCourt(courts repository.Courts, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courts.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(CourtEnvelope{Success: true})
	}
}

// prepareCourt runs the pre-persistence stages: extraction, image encoding and validation.
func prepareCourt(c *fiber.Ctx, enc *images.Encoder, logger *log.Logger, isUpdate bool) (models.CourtFields, error) {
	input, err := extractCourtInput(c)
	if err != nil {
		return models.CourtFields{}, err
	}

	upload, err := readUpload(c, enc.MaxBytes())
	if err != nil {
		return models.CourtFields{}, err
	}

	picture, err := enc.Resolve(upload, input.Picture)
	if err != nil {
		err = pictureError(err)
		logger.Warn("Court picture rejected", "method", c.Method(), "path", c.Path(), "error", err)
		return models.CourtFields{}, err
	}
	// On update an empty picture string means "not supplied", same as leaving it out.
	if isUpdate && picture != nil && *picture == "" {
		picture = nil
	}
	input.Picture = picture

	fields, err := validation.Court(input)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			logger.Warn("Court validation failed", "method", c.Method(), "path", c.Path(), "fields", verrs.Fields())
		}
		return models.CourtFields{}, err
	}
	logger.Debug("Court validated", "method", c.Method(), "path", c.Path(), "has_upload", upload != nil)
	return fields, nil
}

// pictureError reports an image rejection like any other field problem.
func pictureError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind == apperror.KindInvalidFormat {
		return validation.Errors{{Field: pictureField, Kind: appErr.Kind, Message: appErr.Message}}
	}
	return err
}

// ErrorHandler returns the app-wide fiber.ErrorHandler. A court submission whose body
// is over the server's limit can only be carrying an oversize picture, so it gets the
// same validation envelope the encoder's size check produces. Everything else goes to
// fiber.DefaultErrorHandler.
func ErrorHandler(enc *images.Encoder, logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, fiber.ErrRequestEntityTooLarge) && strings.HasPrefix(c.Path(), courtsPath) {
			logger.Warn("Court request body too large", "method", c.Method(), "path", c.Path(),
				"content_length", c.Request().Header.ContentLength())
			return writeError(c, logger, pictureError(enc.TooLarge()))
		}
		return fiber.DefaultErrorHandler(c, err)
	}
}

// extractCourtInput pulls each court field out of the request body, one by one.
// Missing fields become "" so validation can report them; picture keeps nil for "absent".
func extractCourtInput(c *fiber.Ctx) (validation.CourtInput, error) {
	if isJSON(c) {
		var body courtJSON
		if err := c.BodyParser(&body); err != nil {
			return validation.CourtInput{}, validation.Errors{{
				Field: "body", Kind: apperror.KindInvalidFormat, Message: "Request body is not valid JSON",
			}}
		}
		return validation.CourtInput{
			Name:              deref(body.Name),
			Address:           deref(body.Address),
			Hours:             deref(body.Hours),
			CourtsDescription: deref(body.CourtsDescription),
			Amenities:         deref(body.Amenities),
			Phone:             deref(body.Phone),
			Parking:           deref(body.Parking),
			Fees:              deref(body.Fees),
			Picture:           body.Picture,
		}, nil
	}

	in := validation.CourtInput{
		Name:              formValue(c, "name"),
		Address:           formValue(c, "address"),
		Hours:             formValue(c, "hours"),
		CourtsDescription: formValue(c, "courtsDescription"),
		Amenities:         formValue(c, "amenities"),
		Phone:             formValue(c, "phone"),
		Parking:           formValue(c, "parking"),
		Fees:              formValue(c, "fees"),
	}
	if v, ok := formLookup(c, pictureField); ok {
		in.Picture = &v
	}
	return in, nil
}

// readUpload returns the picture file of a multipart request, or nil when there is none.
// At most maxBytes+1 bytes are read so the encoder can tell an oversize file apart.
func readUpload(c *fiber.Ctx, maxBytes int64) (*images.Upload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(pictureField)
	if err != nil {
		return nil, nil // no file part named "picture"
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "open uploaded picture", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "read uploaded picture", err)
	}
	return &images.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// formLookup finds a non-file form value in a multipart or urlencoded body.
func formLookup(c *fiber.Ctx, key string) (string, bool) {
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return "", false
		}
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}
	args := c.Request().PostArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}

func formValue(c *fiber.Ctx, key string) string {
	v, _ := formLookup(c, key)
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func contentType(c *fiber.Ctx) string {
	return strings.ToLower(string(c.Request().Header.ContentType()))
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(contentType(c), fiber.MIMEApplicationJSON)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(contentType(c), fiber.MIMEMultipartForm)
}

// readError answers a failed GET with {"error": "..."} and the kind's status.
func readError(c *fiber.Ctx, logger *log.Logger, err error) error {
	status, message := describe(err)
	logFailure(c, logger, status, err)
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// writeError answers a failed POST/PUT/DELETE with a CourtEnvelope.
func writeError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(CourtEnvelope{
			Success: false,
			Error:   "Validation failed",
			Details: verrs.Details(),
		})
	}

	status, message := describe(err)
	logFailure(c, logger, status, err)
	env := CourtEnvelope{Success: false, Error: message}
	if status == fiber.StatusInternalServerError {
		// Unexpected errors expose their message (never a stack) so a bug report has something to go on.
		env.Error = "Server error"
		env.Message = err.Error()
	}
	return c.Status(status).JSON(env)
}

// describe maps an error to its status code and client-facing message.
func describe(err error) (int, string) {
	kind := apperror.KindOf(err)
	status := apperror.Status(kind)
	switch kind {
	case apperror.KindNotFound:
		return status, "Court not found"
	case apperror.KindUnavailable, apperror.KindTimeout:
		return status, "Database unavailable, try again later"
	case apperror.KindInvalidID:
		return status, "Invalid court id"
	default:
		return status, err.Error()
	}
}

func logFailure(c *fiber.Ctx, logger *log.Logger, status int, err error) {
	if status >= fiber.StatusInternalServerError {
		logger.Error("Court request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
		return
	}
	logger.Info("Court request rejected", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
}
