// Package logger wraps logrus with context-aware helpers used across the qooqz API.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ibdaa1/qooqz/pkg/ctxutil"
	"github.com/sirupsen/logrus"
)

// InitLogging configures the logger. It sets the log level from the LOG_LEVEL environment variable if present.
func InitLogging() {
	logrus.Info("....Configuring Logger....")
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug" // default if not set
	}
	setLogLevel(logLevel)
	logFormat := os.Getenv("LOG_FORMAT")
	if strings.ToLower(logFormat) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	case "panic":
		logrus.SetLevel(logrus.PanicLevel)
	default:
		logrus.Infof("NO/Invalid LOGGING_LEVEL is provided, defaulting logging level to DEBUG, provided loggingLevel=[%s]", level)
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.Infof("Setting logging level to %s", level)
}

// Sprintf formats like fmt.Sprintf; an empty format yields an empty string regardless of args.
func Sprintf(format string, args ...any) string {
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// base returns an entry carrying the request scoped identifiers found in ctx.
func base(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if ctx != nil {
		if rid := ctxutil.RequestID(ctx); rid != "" {
			fields["request_id"] = rid
		}
		if cid := ctxutil.ClientID(ctx); cid != "" {
			fields["client_id"] = cid
		}
		if tid, ok := ctxutil.TenantID(ctx); ok {
			fields["tenant_id"] = tid
		}
	}
	return logrus.WithFields(fields)
}

// With returns an entry with the given fields plus the context identifiers.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	e := base(ctx)
	if len(fields) == 0 {
		return e
	}
	return e.WithFields(logrus.Fields(fields))
}

// WithField returns an entry with a single extra field.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return base(ctx).WithField(key, value)
}

func Info(ctx context.Context, msg string, args ...any) {
	base(ctx).Info(Sprintf(msg, args...))
}

func Debug(ctx context.Context, msg string, args ...any) {
	base(ctx).Debug(Sprintf(msg, args...))
}

func Error(ctx context.Context, msg string, args ...any) {
	base(ctx).Error(Sprintf(msg, args...))
}

func Trace(ctx context.Context, msg string, args ...any) {
	base(ctx).Trace(Sprintf(msg, args...))
}

func Warn(ctx context.Context, msg string, args ...any) {
	base(ctx).Warn(Sprintf(msg, args...))
}

func Fatal(ctx context.Context, msg string, args ...any) {
	base(ctx).Fatal(Sprintf(msg, args...))
}
