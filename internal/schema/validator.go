// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package schema validates persisted JSON documents against embedded JSON
// Schemas before they are trusted.
package schema

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrInvalidDocument is returned when a document violates its schema or is
// not JSON at all.
var ErrInvalidDocument = errors.New("invalid document")

// FieldError describes one schema violation.
type FieldError struct {
	Field       string
	Description string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// Validator holds the compiled schemas. It is safe for concurrent use.
type Validator struct {
	envelope     *gojsonschema.Schema
	currentState *gojsonschema.Schema
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	envelope, err := compile("schemas/envelope.json")
	if err != nil {
		return nil, err
	}
	currentState, err := compile("schemas/current-state.json")
	if err != nil {
		return nil, err
	}
	return &Validator{envelope: envelope, currentState: currentState}, nil
}

var defaultValidator = sync.OnceValues(New)

// Default returns a process-wide validator.
func Default() *Validator {
	v, err := defaultValidator()
	if err != nil {
		panic(fmt.Sprintf("schema: embedded schemas do not compile: %v", err))
	}
	return v
}

func compile(name string) (*gojsonschema.Schema, error) {
	definition, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(definition))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return compiled, nil
}

// ValidateEnvelope checks an EncryptedRecord document.
func (v *Validator) ValidateEnvelope(data []byte) error {
	return validate(v.envelope, data)
}

// ValidateCurrentState checks a current-state.json document.
func (v *Validator) ValidateCurrentState(data []byte) error {
	return validate(v.currentState, data)
}

func validate(s *gojsonschema.Schema, data []byte) error {
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	fieldErrs := make([]error, 0, len(result.Errors()))
	descriptions := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fe := FieldError{Field: re.Field(), Description: re.Description()}
		fieldErrs = append(fieldErrs, fe)
		descriptions = append(descriptions, fe.Error())
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, strings.Join(descriptions, "; "), errors.Join(fieldErrs...))
}
