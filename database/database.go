package database

import (
	"errors"

	"github.com/expki/go-covariance/config"
	_ "github.com/expki/go-covariance/env"
	"github.com/expki/go-covariance/logger"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Database is an archive of named covariance matrices.
type Database struct {
	*gorm.DB
}

func New(cfg config.Archive) (*Database, error) {
	// get dialectors from config
	readwrite, readonly := cfg.GetDialectors()
	if len(readwrite) == 0 {
		return nil, errors.New("no writable database configured")
	}

	// open primary database connection
	db, err := gorm.Open(readwrite[0], &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, err
	}
	db.Clauses(dbresolver.Write).AutoMigrate(
		&Record{},
	)

	// add resolver connections
	if len(readonly)+len(readwrite) > 1 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Sources:           readwrite,
			Replicas:          readonly,
			Policy:            dbresolver.StrictRoundRobinPolicy(),
			TraceResolverMode: true,
		}))
		if err != nil {
			logger.Sugar().Errorf("failed to register database resolver: %v", err)
			return nil, err
		}
	}
	return &Database{DB: db}, nil
}

// Close releases the underlying connection pool.
func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
