package database

import (
	"time"

	_ "github.com/expki/go-covariance/env"
	"gorm.io/gorm"
)

// Header is the metadata table of a covariance container file. A container
// holds exactly one row.
type Header struct {
	ID          uint64     `gorm:"primarykey"`
	Shape       ShapeField `gorm:"not null"`
	Description string
	Nonzero     uint64    `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;not null"`
}

// Entry is one stored covariance value in a container file, with i <= j.
type Entry struct {
	I     uint64  `gorm:"primaryKey;autoIncrement:false"`
	J     uint64  `gorm:"primaryKey;autoIncrement:false"`
	Value float64 `gorm:"not null"`
}

// Record is one named covariance matrix in the archive database. Entries are
// kept as a single compressed blob rather than rows; archives hold many
// matrices and are loaded whole.
type Record struct {
	ID          uint64     `gorm:"primarykey"`
	Name        string     `gorm:"uniqueIndex;not null"`
	Shape       ShapeField `gorm:"not null"`
	Description string
	Nonzero     uint64       `gorm:"not null"`
	Entries     TripletField `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime;index;not null"`
}

func (m *Record) BeforeCreate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Record) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now().UTC()
	return nil
}
