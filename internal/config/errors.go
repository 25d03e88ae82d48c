package config

import (
	"errors"
	"fmt"
)

// ConfigurationError marks operator or programmer errors that must abort the
// whole run instead of degrading to a placeholder section.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func Errorf(format string, args ...any) error {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
