// Package models defines the data structures used by the Pickleball Directory API.
//
// Court is the only persisted model: GORM maps it onto the "courts" table and the struct
// tags (the backtick strings like `gorm:"..."`) tell GORM each column's type and constraints.
// Product and Group are read-only catalog records; they never touch the database and carry
// yaml tags for the embedded catalog file plus json tags for the API.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// Random UUIDs are never reused after a delete, unlike auto-incrementing integers.
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Court is one pickleball venue in the directory, as stored in the database.
// The API never serializes this struct directly — see repository.CourtResponse for the
// external shape, which always renders the ID as a string.
type Court struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"type:text;not null"`
	Address           string    `gorm:"type:text;not null"`
	Hours             string    `gorm:"type:text;not null"`
	CourtsDescription string    `gorm:"type:text;not null"` // e.g. "4 outdoor courts, 2 indoor courts"
	Amenities         string    `gorm:"type:text;not null"`
	Phone             string    `gorm:"type:text;not null"`
	Parking           string    `gorm:"type:text;not null"`
	Fees              string    `gorm:"type:text;not null"`
	// Picture is "" or an inline image reference ("image/png;base64,....").
	// Images live in the row itself; there is no separate file storage.
	Picture   string `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate is a GORM hook that runs right before the INSERT.
// The storage layer owns ID assignment: whatever the caller put in ID is ignored
// and a fresh random UUID is generated, so an ID can never be chosen or reused by a client.
func (c *Court) BeforeCreate(tx *gorm.DB) error {
	c.ID = uuid.New()
	return nil
}

// Product is an item in the pickleball gear catalog.
type Product struct {
	ID                  int    `yaml:"id" json:"id"`
	Name                string `yaml:"name" json:"name"`
	Image               string `yaml:"image" json:"image"` // file name under /images
	Price               string `yaml:"price" json:"price"` // display string, e.g. "$89.99"
	Description         string `yaml:"description" json:"description"`
	SkillLevel          string `yaml:"skillLevel" json:"skillLevel"`
	DetailedDescription string `yaml:"detailedDescription" json:"detailedDescription"`
}

// Group is a recurring community play group.
type Group struct {
	ID                int    `yaml:"id" json:"id"`
	Name              string `yaml:"name" json:"name"`
	Location          string `yaml:"location" json:"location"`
	Time              string `yaml:"time" json:"time"`
	Day               string `yaml:"day" json:"day"`
	SkillLevel        string `yaml:"skillLevel" json:"skillLevel"`
	Description       string `yaml:"description" json:"description"`
	Organizer         string `yaml:"organizer" json:"organizer"`
	ContactEmail      string `yaml:"contactEmail" json:"contactEmail"`
	AverageAttendance string `yaml:"averageAttendance" json:"averageAttendance"`
}

// CourtFields is a normalized court submission: every text field trimmed and validated.
// It's what the validation step hands to the repository for a create or an update.
type CourtFields struct {
	Name              string
	Address           string
	Hours             string
	CourtsDescription string
	Amenities         string
	Phone             string
	Parking           string
	Fees              string
	// Picture is nil when the request carried no picture at all. On update that means
	// "keep whatever is stored"; on create it means "no picture".
	Picture *string
}
