package badger

import (
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// badgerLoggerAdapter adapts zap.Logger to badger.Logger interface.
// Badger's info output is logged at debug level.
type badgerLoggerAdapter struct {
	logger *zap.Logger
}

// Ensure badgerLoggerAdapter implements badger.Logger
var _ badgerdb.Logger = (*badgerLoggerAdapter)(nil)

// Errorf logs an error message
func (b *badgerLoggerAdapter) Errorf(format string, args ...interface{}) {
	b.logger.Error(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}

// Warningf logs a warning message
func (b *badgerLoggerAdapter) Warningf(format string, args ...interface{}) {
	b.logger.Warn(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}

// Infof logs badger info messages at debug level
func (b *badgerLoggerAdapter) Infof(format string, args ...interface{}) {
	b.logger.Debug(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}

// Debugf logs a debug message
func (b *badgerLoggerAdapter) Debugf(format string, args ...interface{}) {
	b.logger.Debug(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}
