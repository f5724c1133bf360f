// Package logging adapts zap to the Nakama runtime.Logger interface so code
// outside a Nakama process logs the same way the match handler does.
package logging

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements runtime.Logger on a zap SugaredLogger.
type ZapLogger struct {
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

var _ runtime.Logger = (*ZapLogger)(nil)

// New wraps l.
func New(l *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: l.Sugar(), fields: map[string]interface{}{}}
}

// NewProduction builds a JSON logger, or a console logger at debug level when
// debug is set.
func NewProduction(debug bool) (*ZapLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return New(l), nil
}

// Nop discards everything.
func Nop() *ZapLogger { return New(zap.NewNop()) }

func (z *ZapLogger) Debug(format string, v ...interface{}) { z.sugar.Debugf(format, v...) }
func (z *ZapLogger) Info(format string, v ...interface{})  { z.sugar.Infof(format, v...) }
func (z *ZapLogger) Warn(format string, v ...interface{})  { z.sugar.Warnf(format, v...) }
func (z *ZapLogger) Error(format string, v ...interface{}) { z.sugar.Errorf(format, v...) }

func (z *ZapLogger) WithField(key string, v interface{}) runtime.Logger {
	return z.WithFields(map[string]interface{}{key: v})
}

func (z *ZapLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(z.fields)+len(fields))
	for k, v := range z.fields {
		merged[k] = v
	}
	args := make([]interface{}, 0, 2*len(fields))
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	return &ZapLogger{sugar: z.sugar.With(args...), fields: merged}
}

func (z *ZapLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(z.fields))
	for k, v := range z.fields {
		out[k] = v
	}
	return out
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error { return z.sugar.Sync() }
