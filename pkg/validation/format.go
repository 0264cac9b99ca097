// Package validation provides common validation utilities.
package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/rent-intel/pkg/constants"
)

// ErrInvalidOutputFormat is returned for an output format the writers do not support.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("%w: expected %s, %s or %s, got %q", ErrInvalidOutputFormat,
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}
