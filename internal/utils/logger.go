package utils

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

type Fields = logrus.Fields

const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"

	serviceName = "ytmp3"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetFormatter(newFormatter(os.Getenv("LOG_FORMAT")))

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level %s, defaulting to info", logLevel)
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)
}

// newFormatter returns JSON unless LOG_FORMAT=text is requested for local runs.
func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "text") {
		return &logrus.TextFormatter{FullTimestamp: true}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}

func GetLogger() *logrus.Logger {
	return logger
}

// SetOutput redirects the shared logger, mainly so tests can capture or
// silence it.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func GenerateRequestID() string {
	return "req_" + uuid.New().String()
}

// LoggerFromContext returns an entry carrying the service name and any
// correlation or request ID stored in ctx.
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	entry := logger.WithField("service", serviceName)

	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		entry = entry.WithField("correlation_id", correlationID)
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}

	return entry
}

func withFields(entry *logrus.Entry, fields []Fields) *logrus.Entry {
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	return entry
}

func LogInfo(ctx context.Context, message string, fields ...Fields) {
	withFields(LoggerFromContext(ctx), fields).Info(message)
}

func LogError(ctx context.Context, message string, err error, fields ...Fields) {
	withFields(LoggerFromContext(ctx).WithError(err), fields).Error(message)
}

func LogWarn(ctx context.Context, message string, fields ...Fields) {
	withFields(LoggerFromContext(ctx), fields).Warn(message)
}

func LogDebug(ctx context.Context, message string, fields ...Fields) {
	withFields(LoggerFromContext(ctx), fields).Debug(message)
}
