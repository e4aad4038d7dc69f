// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Field names in errors
// come from the koanf struct tag, so a failure reads the way the key appears in
// config.yaml:
//
//	sync.interval_minutes must be at most 60
//
// Custom tags:
//   - loglevel: value is a level the logging package understands
//   - scheme=<s1> <s2>: value parses as a URL with one of the listed schemes
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/runestatus-sync/internal/logging"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the dotted config key, e.g. "transport.endpoint".
func (e *FieldError) Field() string { return e.field }

// Tag returns the rule that failed.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the rule parameter ("60" for "max=60").
func (e *FieldError) Param() string { return e.param }

func (e *FieldError) Error() string { return e.message }

// Errors collects every failed rule of one struct.
type Errors struct {
	errors []FieldError
}

// Fields returns the individual failures.
func (ve *Errors) Fields() []FieldError {
	return ve.errors
}

func (ve *Errors) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for i := range ve.errors {
		messages = append(messages, ve.errors[i].message)
	}
	return strings.Join(messages, "; ")
}

// Has reports whether field failed validation.
func (ve *Errors) Has(field string) bool {
	for i := range ve.errors {
		if ve.errors[i].field == field {
			return true
		}
	}
	return false
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			return logging.ValidLevel(fl.Field().String())
		})
		_ = v.RegisterValidation("scheme", validateScheme)

		validate = v
	})
	return validate
}

func validateScheme(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	for _, s := range strings.Fields(fl.Param()) {
		if strings.EqualFold(u.Scheme, s) {
			return true
		}
	}
	return false
}

// ValidateStruct validates s. It returns nil or an *Errors.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		out[i] = FieldError{
			field:   field,
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translate(fe, field),
		}
	}
	return &Errors{errors: out}
}

// fieldPath drops the root type name: "Config.sync.interval_minutes" -> "sync.interval_minutes".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

var messageTemplates = map[string]string{
	"required":      "%s is required",
	"url":           "%s must be a valid URL",
	"hostname_port": "%s must be host:port",
	"loglevel":      "%s must be one of trace, debug, info, warn, error",
}

var messageWithParam = map[string]string{
	"oneof":  "%s must be one of: %s",
	"scheme": "%s must be a URL with scheme %s",
	"gte":    "%s must be greater than or equal to %s",
	"lte":    "%s must be less than or equal to %s",
	"gt":     "%s must be greater than %s",
	"lt":     "%s must be less than %s",
}

func translate(fe validator.FieldError, field string) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
