// Package storage provides the SQLite persistence layer for durable client state.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyString is returned when a required key or path is blank.
var ErrEmptyString = errors.New("string parameter cannot be empty")

// validateString rejects blank keys and paths before they reach SQLite.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}
