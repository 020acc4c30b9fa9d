package database

import (
	"context"
	"fmt"

	"github.com/expki/go-covariance/config"
	"github.com/expki/go-covariance/covariance"
	_ "github.com/expki/go-covariance/env"
	"github.com/expki/go-covariance/logger"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// Save stores a covariance matrix under name, replacing any previous version.
func (db *Database) Save(ctx context.Context, name string, cov *covariance.Covariance) error {
	triplets := cov.Triplets()
	record := Record{
		Name:        name,
		Shape:       ShapeField(cov.Shape()),
		Description: cov.Description,
		Nonzero:     uint64(len(triplets)),
		Entries:     TripletField(triplets),
	}
	result := db.WithContext(ctx).Clauses(dbresolver.Write, clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"shape", "description", "nonzero", "entries", "updated_at"}),
	}).Create(&record)
	if result.Error != nil {
		logger.Sugar().Errorf("archive save of %q failed: %v", name, result.Error)
		return result.Error
	}
	logger.Sugar().Debugf("archived covariance %q: shape=%v nonzero=%d", name, cov.Shape(), len(triplets))
	return nil
}

// Load rebuilds the covariance matrix stored under name.
func (db *Database) Load(ctx context.Context, name string) (*covariance.Covariance, error) {
	var record Record
	result := db.WithContext(ctx).Clauses(dbresolver.Read).Where("name = ?", name).First(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if uint64(len(record.Entries)) != record.Nonzero {
		return nil, fmt.Errorf("archive record %q truncated: header lists %d entries, found %d", name, record.Nonzero, len(record.Entries))
	}
	cov, err := covariance.New(covariance.Shape(record.Shape), covariance.TripletInput{Triplets: record.Entries}, config.DefaultCovariance())
	if err != nil {
		return nil, err
	}
	cov.Description = record.Description
	return cov, nil
}

// Delete removes the covariance matrix stored under name.
func (db *Database) Delete(ctx context.Context, name string) error {
	result := db.WithContext(ctx).Clauses(dbresolver.Write).Where("name = ?", name).Delete(&Record{})
	return result.Error
}

// Names lists every archived covariance matrix in lexical order.
func (db *Database) Names(ctx context.Context) ([]string, error) {
	var names []string
	result := db.WithContext(ctx).Clauses(dbresolver.Read).Model(&Record{}).Order("name").Pluck("name", &names)
	if result.Error != nil {
		return nil, result.Error
	}
	return names, nil
}
