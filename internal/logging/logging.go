package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
)

const (
	RootModule     = "admincustomizer"
	SettingsModule = "admincustomizer.settings"
	StoreModule    = "admincustomizer.store"
	FeaturesModule = "admincustomizer.features"
	HTTPModule     = "admincustomizer.http"
	CLIModule      = "admincustomizer.cli"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = RootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches structured fields when the logger supports them.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}
	return logger
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Trace(string, ...any)                            {}
func (noopLogger) Debug(string, ...any)                            {}
func (noopLogger) Info(string, ...any)                             {}
func (noopLogger) Warn(string, ...any)                             {}
func (noopLogger) Error(string, ...any)                            {}
func (noopLogger) Fatal(string, ...any)                            {}
func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
func (n noopLogger) WithFields(map[string]any) interfaces.Logger   { return n }
