package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"
	FieldScorer    = "scorer"
)

// New construye el logger del proceso: JSON en produccion, consola para uso local.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// WithUser agrega los campos de usuario y sesion; los vacios se omiten.
// Con logger nil devuelve un logger no-op.
func WithUser(logger *zap.Logger, userID, sessionID string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := make([]zap.Field, 0, 2)
	if v := strings.TrimSpace(userID); v != "" {
		fields = append(fields, zap.String(FieldUserID, v))
	}
	if v := strings.TrimSpace(sessionID); v != "" {
		fields = append(fields, zap.String(FieldSessionID, v))
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// TruncateForLog recorta s a limit runas agregando "..." si hubo recorte.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
