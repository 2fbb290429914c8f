// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package validation checks decoded URL query parameters with
// go-playground/validator. Request structs name each field's parameter with a
// `query` tag; errors report that name, so clients see "movie" rather than
// the Go field name:
//
//	type recommendationsRequest struct {
//	    Movie string `query:"movie" validate:"max=300,nocontrol"`
//	    TopN  int    `query:"n" validate:"gte=0"`
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("nocontrol", noControl)
	})
	return validate
}

// ParamError describes one rejected query parameter.
type ParamError struct {
	Param   string      `json:"param"`
	Rule    string      `json:"rule"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// Error lists every rejected parameter of a request.
type Error struct {
	Params []ParamError
}

// Invalid builds an Error for a parameter rejected before struct validation,
// such as a non-numeric integer.
func Invalid(param, rule, value, message string) *Error {
	return &Error{Params: []ParamError{{Param: param, Rule: rule, Value: value, Message: message}}}
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Params))
	for i, p := range e.Params {
		msgs[i] = p.Message
	}
	return strings.Join(msgs, "; ")
}

// Details is the payload for the error envelope's details field.
func (e *Error) Details() map[string]interface{} {
	if len(e.Params) == 1 {
		return map[string]interface{}{"param": e.Params[0].Param, "value": e.Params[0].Value}
	}
	return map[string]interface{}{"params": e.Params}
}

// Params validates a request struct. It returns nil when every parameter is
// acceptable.
func Params(req interface{}) *Error {
	err := instance().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Invalid("", "unknown", "", err.Error())
	}

	out := &Error{Params: make([]ParamError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Params[i] = ParamError{
			Param:   fe.Field(),
			Rule:    fe.Tag(),
			Value:   echoValue(fe),
			Message: message(fe),
		}
	}
	return out
}

// echoValue returns the rejected value for the response. Strings that failed
// length or control checks are not echoed back.
func echoValue(fe validator.FieldError) interface{} {
	if fe.Kind() == reflect.String {
		return nil
	}
	return fe.Value()
}

func message(fe validator.FieldError) string {
	name, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "nocontrol":
		return name + " must not contain control characters"
	case "required":
		return name + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, param)
		}
		return fmt.Sprintf("%s must be at most %s", name, param)
	case "gte", "min":
		if param == "0" {
			return name + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", name, param)
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}

// noControl rejects control characters such as newlines or NUL bytes; titles
// and search queries are single-line text.
func noControl(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}
