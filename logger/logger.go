package logger

import (
	"sync"

	"github.com/expki/go-covariance/config"
	_ "github.com/expki/go-covariance/env"
	"go.uber.org/zap"
)

var (
	lock   sync.RWMutex
	logger *zap.Logger = zap.NewNop()
	sugar  *zap.SugaredLogger
)

func init() {
	sugar = logger.Sugar()
}

// Initialize replaces the process-wide logger with one at the configured level.
func Initialize(level config.LogLevel) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = level.Zap()
	cfg.Encoding = "console"
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	lock.Lock()
	logger = l
	sugar = l.Sugar()
	lock.Unlock()
	return nil
}

func Logger() *zap.Logger {
	lock.RLock()
	defer lock.RUnlock()
	return logger
}

func Sugar() *zap.SugaredLogger {
	lock.RLock()
	defer lock.RUnlock()
	return sugar
}
