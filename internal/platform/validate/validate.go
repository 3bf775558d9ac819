// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// failures before returning a single ValidationError.
//
// # Architecture
//
// This package is used by HTTP handlers before any service call. It only judges
// the shape of input; identity conflicts are decided by the user service.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/portal/internal/platform/apperr"
)

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.Validation(
		"Os dados enviados não são um JSON válido.",
		"Verifique o corpo da requisição e tente novamente.",
	)
)

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, fmt.Sprintf("O campo %s é obrigatório.", field))
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("O campo %s aceita no máximo %d caracteres.", field, max))
	}
	return v
}

// MaxBytes fails if the byte length exceeds max.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, fmt.Sprintf("O campo %s aceita no máximo %d bytes.", field, max))
	}
	return v
}

// Email fails unless the value is a bare RFC 5322 addr-spec. Display names,
// comments and surrounding whitespace are rejected so that one mailbox has a
// single stored form.
func (v *Validator) Email(field, value string) *Validator {
	if address, err := mail.ParseAddress(value); err != nil || address.Address != value {
		v.add(field, fmt.Sprintf("O campo %s deve ser um email válido.", field))
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a ValidationError if any rules failed, or nil if all rules passed.
//
// The message is the first failure; the action names every failing field.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.Validation(
		v.errs[0].Message,
		fmt.Sprintf("Corrija os campos: %s.", strings.Join(v.Fields(), ", ")),
	)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Fields lists the distinct failing fields in order of first failure.
func (v *Validator) Fields() []string {
	seen := make(map[string]bool, len(v.errs))
	fields := make([]string, 0, len(v.errs))
	for _, fieldError := range v.errs {
		if seen[fieldError.Field] {
			continue
		}
		seen[fieldError.Field] = true
		fields = append(fields, fieldError.Field)
	}
	return fields
}

// add appends a [FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}
