package logging

// Logger is a deliberately small, framework-agnostic logging interface.
// Runners, doubles and commands all depend on it rather than on a concrete logger.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning.
	Warn(msg string, fields ...Field)

	// Error logs an error.
	Error(msg string, fields ...Field)

	// With returns a child logger with persistent fields.
	With(fields ...Field) Logger
}

// Field is a simple key/value pair for structured logging fields.
type Field struct {
	Key   string
	Value any
}

// Err is shorthand for the "error" field used throughout the code base.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func mergeFields(persistent, fields []Field) []Field {
	if len(persistent) == 0 {
		return fields
	}
	out := make([]Field, 0, len(persistent)+len(fields))
	out = append(out, persistent...)
	return append(out, fields...)
}
