package nn

import "fmt"

// ConfigError reports a model configuration that is internally
// inconsistent, or an input tensor whose shape is incompatible with the
// configuration. It is raised at construction or at the entry of a
// forward call, never mid-computation, so a failed operation produces
// no partial output.
type ConfigError struct {
	msg string
}

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.msg
}
