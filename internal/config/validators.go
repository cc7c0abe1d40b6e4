package config

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/idelchi/goseal/internal/passphrase"
)

// newValidator builds a validator with the custom tags the Config
// struct relies on.
func newValidator() (*validator.Validate, error) {
	validate := validator.New()

	if err := validate.RegisterValidation("bytesize", validateByteSize); err != nil {
		return nil, fmt.Errorf("registering bytesize validation: %w", err)
	}

	if err := validate.RegisterValidation("charset", validateCharset); err != nil {
		return nil, fmt.Errorf("registering charset validation: %w", err)
	}

	return validate, nil
}

// validateByteSize accepts humanized sizes ("1000MB", "3MiB", "500000")
// that resolve to a positive byte count. Sizes beyond int64 range
// ("10EiB") parse but cannot be used as offsets, so they are rejected
// here too.
func validateByteSize(fl validator.FieldLevel) bool {
	size, err := humanize.ParseBytes(fl.Field().String())

	return err == nil && size > 0 && size <= math.MaxInt64
}

// validateCharset accepts the passphrase charset policy names.
func validateCharset(fl validator.FieldLevel) bool {
	_, err := passphrase.Alphabet(fl.Field().String())

	return err == nil
}
