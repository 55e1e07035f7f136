// Package repository is the persistence layer for courts.
//
// Everything outside this package sees courts in their external shape (CourtResponse):
// string IDs, plain string fields. How the store represents a court (UUID primary key,
// timestamps, column names) stays in here.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/trentd187/pickleball-directory/internal/apperror"
	"github.com/trentd187/pickleball-directory/internal/database"
	"github.com/trentd187/pickleball-directory/internal/models"
	"gorm.io/gorm"
)

// DefaultTimeout bounds a storage call when the caller passes no timeout.
const DefaultTimeout = 5 * time.Second

// CourtResponse is the external shape of a court: what the API sends to clients.
type CourtResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	Hours             string `json:"hours"`
	CourtsDescription string `json:"courtsDescription"`
	Amenities         string `json:"amenities"`
	Phone             string `json:"phone"`
	Parking           string `json:"parking"`
	Fees              string `json:"fees"`
	Picture           string `json:"picture"`
}

// Courts is the set of operations the HTTP handlers need from storage.
type Courts interface {
	Ready() bool
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]CourtResponse, error)
	Get(ctx context.Context, id string) (CourtResponse, error)
	Create(ctx context.Context, fields models.CourtFields) (CourtResponse, error)
	Update(ctx context.Context, id string, fields models.CourtFields) (CourtResponse, error)
	Delete(ctx context.Context, id string) error
}

// CourtRepository implements Courts on top of GORM.
// The handle may be attached after construction (see Attach), so the server can
// start before the database is reachable; until then every call fails with Unavailable.
type CourtRepository struct {
	mu      sync.RWMutex
	db      *gorm.DB
	timeout time.Duration
	log     *log.Logger
}

var _ Courts = (*CourtRepository)(nil)

// NewCourtRepository creates a repository. db may be nil.
func NewCourtRepository(db *gorm.DB, timeout time.Duration, logger *log.Logger) *CourtRepository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CourtRepository{
		db:      db,
		timeout: timeout,
		log:     logger.WithPrefix("courts"),
	}
}

// Attach installs (or replaces) the database handle, marking storage ready.
func (r *CourtRepository) Attach(db *gorm.DB) {
	r.mu.Lock()
	r.db = db
	r.mu.Unlock()
}

// Ready reports whether a database handle is attached.
func (r *CourtRepository) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db != nil
}

// handle returns the attached *gorm.DB or an Unavailable error.
func (r *CourtRepository) handle() (*gorm.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, apperror.New(apperror.KindUnavailable, "Database not connected")
	}
	return r.db, nil
}

// bounded derives the context for one storage call. Cancellation of the request
// context is deliberately not inherited: once started, an operation runs until it
// finishes or hits the storage timeout.
func (r *CourtRepository) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
}

// Ping checks the database answers within the storage timeout.
func (r *CourtRepository) Ping(ctx context.Context) error {
	db, err := r.handle()
	if err != nil {
		return err
	}
	if err := database.Ping(context.WithoutCancel(ctx), db, r.timeout); err != nil {
		return classify("ping", err)
	}
	return nil
}

// List returns every court in storage order.
func (r *CourtRepository) List(ctx context.Context) ([]CourtResponse, error) {
	db, err := r.handle()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var courts []models.Court
	if err := db.WithContext(ctx).Find(&courts).Error; err != nil {
		r.log.Error("List courts failed", "error", err)
		return nil, classify("list courts", err)
	}

	out := make([]CourtResponse, 0, len(courts))
	for i := range courts {
		out = append(out, toResponse(&courts[i]))
	}
	r.log.Debug("Listed courts", "count", len(out))
	return out, nil
}

// Get returns one court.
func (r *CourtRepository) Get(ctx context.Context, id string) (CourtResponse, error) {
	db, err := r.handle()
	if err != nil {
		return CourtResponse{}, err
	}
	uid, err := parseID(id)
	if err != nil {
		return CourtResponse{}, err
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var court models.Court
	if err := db.WithContext(ctx).First(&court, "id = ?", uid).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("Get court failed", "id", id, "error", err)
		}
		return CourtResponse{}, classify("get court", err)
	}
	return toResponse(&court), nil
}

// Create inserts a new court. The ID is assigned by the storage layer.
func (r *CourtRepository) Create(ctx context.Context, fields models.CourtFields) (CourtResponse, error) {
	db, err := r.handle()
	if err != nil {
		return CourtResponse{}, err
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var court models.Court
	applyFields(&court, fields)
	if err := db.WithContext(ctx).Create(&court).Error; err != nil {
		r.log.Error("Create court failed", "error", err)
		return CourtResponse{}, classify("create court", err)
	}

	r.log.Info("Court created", "id", court.ID, "name", court.Name, "has_picture", court.Picture != "")
	return toResponse(&court), nil
}

// Update replaces every field of an existing court in one transaction.
// A nil fields.Picture keeps the stored picture.
func (r *CourtRepository) Update(ctx context.Context, id string, fields models.CourtFields) (CourtResponse, error) {
	db, err := r.handle()
	if err != nil {
		return CourtResponse{}, err
	}
	uid, err := parseID(id)
	if err != nil {
		return CourtResponse{}, err
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var court models.Court
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&court, "id = ?", uid).Error; err != nil {
			return err
		}
		applyFields(&court, fields)
		// Not Save: when its UPDATE matches no row (a delete committed after the
		// First above) it falls back to an INSERT and revives the old id.
		res := tx.Model(&court).Select("*").Omit("ID", "CreatedAt").Updates(&court)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("Update court failed", "id", id, "error", err)
		}
		return CourtResponse{}, classify("update court", err)
	}

	r.log.Info("Court updated", "id", court.ID, "picture_replaced", fields.Picture != nil)
	return toResponse(&court), nil
}

// Delete removes a court permanently.
func (r *CourtRepository) Delete(ctx context.Context, id string) error {
	db, err := r.handle()
	if err != nil {
		return err
	}
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	res := db.WithContext(ctx).Delete(&models.Court{}, "id = ?", uid)
	if res.Error != nil {
		r.log.Error("Delete court failed", "id", id, "error", res.Error)
		return classify("delete court", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.KindNotFound, "Court not found")
	}

	r.log.Info("Court deleted", "id", id)
	return nil
}

// parseID validates that id is a storage identifier (a UUID).
func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindInvalidID, "Invalid court id", err)
	}
	return uid, nil
}

// applyFields copies a validated submission onto a stored court.
func applyFields(c *models.Court, f models.CourtFields) {
	c.Name = f.Name
	c.Address = f.Address
	c.Hours = f.Hours
	c.CourtsDescription = f.CourtsDescription
	c.Amenities = f.Amenities
	c.Phone = f.Phone
	c.Parking = f.Parking
	c.Fees = f.Fees
	if f.Picture != nil {
		c.Picture = *f.Picture
	}
}

// toResponse maps a stored court onto its external shape.
func toResponse(c *models.Court) CourtResponse {
	return CourtResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		Address:           c.Address,
		Hours:             c.Hours,
		CourtsDescription: c.CourtsDescription,
		Amenities:         c.Amenities,
		Phone:             c.Phone,
		Parking:           c.Parking,
		Fees:              c.Fees,
		Picture:           c.Picture,
	}
}

// classify maps a driver/GORM error onto the apperror taxonomy.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.New(apperror.KindNotFound, "Court not found")
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Wrap(apperror.KindTimeout, op+" timed out", err)
	case isConnectionError(err):
		return apperror.Wrap(apperror.KindUnavailable, op+": database unavailable", err)
	default:
		return apperror.Wrap(apperror.KindUnexpected, op, err)
	}
}

// isConnectionError reports whether err means the database connection is gone
// or could not be established.
func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// database/sql doesn't export an error value for a closed pool.
	if strings.Contains(err.Error(), "sql: database is closed") {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
