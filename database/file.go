package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/expki/go-covariance/config"
	"github.com/expki/go-covariance/covariance"
	_ "github.com/expki/go-covariance/env"
	"github.com/expki/go-covariance/logger"
	"github.com/schollz/progressbar/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Write serializes a covariance matrix to a single-file container at path: a
// headers table with the shape and provenance, and an entries table with one
// (i, j, value) row per stored pair. Writing to an existing path fails unless
// overwrite is set; concurrent writers to the same path are the caller's
// problem.
func Write(ctx context.Context, path string, cov *covariance.Covariance, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("covariance container %s: %w", path, fs.ErrExist)
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	db, err := openContainer(path)
	if err != nil {
		return err
	}
	defer closeContainer(db)

	err = db.WithContext(ctx).AutoMigrate(&Header{}, &Entry{})
	if err != nil {
		return fmt.Errorf("migrate covariance container: %w", err)
	}

	triplets := cov.Triplets()
	header := Header{
		Shape:       ShapeField(cov.Shape()),
		Description: cov.Description,
		Nonzero:     uint64(len(triplets)),
	}
	result := db.WithContext(ctx).Create(&header)
	if result.Error != nil {
		return fmt.Errorf("write covariance header: %w", result.Error)
	}

	var bar *progressbar.ProgressBar
	if len(triplets) >= config.PROGRESS_MIN_TOTAL {
		bar = progressbar.Default(int64(len(triplets)), "Writing covariance entries...")
	}
	for start := 0; start < len(triplets); start += config.BATCH_SIZE_ENTRIES {
		end := min(start+config.BATCH_SIZE_ENTRIES, len(triplets))
		batch := make([]Entry, 0, end-start)
		for _, triplet := range triplets[start:end] {
			batch = append(batch, Entry{I: uint64(triplet.I), J: uint64(triplet.J), Value: triplet.Value})
		}
		result = db.WithContext(ctx).Create(&batch)
		if result.Error != nil {
			return fmt.Errorf("write covariance entries: %w", result.Error)
		}
		if bar != nil {
			bar.Add(len(batch))
		}
	}
	if bar != nil {
		bar.Finish()
	}

	logger.Sugar().Debugf("wrote covariance container %s: shape=%v nonzero=%d", path, cov.Shape(), len(triplets))
	return nil
}

// Read rebuilds a covariance matrix from a container file written by Write.
// The rebuilt store is identical: same shape, same entry set and values.
func Read(ctx context.Context, path string) (*covariance.Covariance, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := openContainer(path)
	if err != nil {
		return nil, err
	}
	defer closeContainer(db)

	var header Header
	result := db.WithContext(ctx).First(&header)
	if result.Error != nil {
		return nil, fmt.Errorf("read covariance header: %w", result.Error)
	}

	var entries []Entry
	result = db.WithContext(ctx).Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("read covariance entries: %w", result.Error)
	}
	if uint64(len(entries)) != header.Nonzero {
		return nil, fmt.Errorf("covariance container %s truncated: header lists %d entries, found %d", path, header.Nonzero, len(entries))
	}

	triplets := make([]covariance.Triplet, len(entries))
	for idx, entry := range entries {
		triplets[idx] = covariance.Triplet{I: int(entry.I), J: int(entry.J), Value: entry.Value}
	}
	cov, err := covariance.New(covariance.Shape(header.Shape), covariance.TripletInput{Triplets: triplets}, config.DefaultCovariance())
	if err != nil {
		return nil, err
	}
	cov.Description = header.Description

	logger.Sugar().Debugf("read covariance container %s: shape=%v nonzero=%d", path, cov.Shape(), cov.NonzeroCount())
	return cov, nil
}

func openContainer(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("open covariance container %s: %w", path, err)
	}
	return db, nil
}

func closeContainer(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Sugar().Errorf("covariance container close failed: %v", err)
		return
	}
	sqlDB.Close()
}
