// Package validation runs local, pre-submission field checks. Failures never
// reach the network.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	documentIDPattern  = regexp.MustCompile(`^[0-9]{5,20}$`)
	displayNamePattern = regexp.MustCompile(`^[\p{L}\p{N}\s\-'().,;]{3,200}$`)
	alnumPattern       = regexp.MustCompile(`[\p{L}0-9]`)
	phonePattern       = regexp.MustCompile(`^[0-9\s\-]{7,15}$`)
	descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N}\s\p{P}]{10,1000}$`)
	categoryPattern    = regexp.MustCompile(`^[\p{L}\s]{3,50}$`)
	serviceNamePattern = regexp.MustCompile(`^[\p{L}\s]{3,100}$`)
	pricePattern       = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

var messages = map[string]string{
	"documentid":    "must contain only digits (5-20 characters)",
	"displayname":   "must be 3-200 letters, digits, spaces or common symbols",
	"email":         "is not a valid email address",
	"phone":         "must be 7-15 digits and may include spaces or dashes",
	"description":   "must be 10-1000 characters including punctuation",
	"category":      "must be 3-50 letters or spaces",
	"servicename":   "must be 3-100 letters",
	"money":         "must be a number with at most two decimals",
	"nonnegfloat":   "must be a non-negative number",
	"nonnegint":     "must be a non-negative integer",
	"required":      "is required",
	"gte":           "must not be negative",
	"image":         "must be a JPEG or PNG image up to 5 MB",
	"imagerequired": "an image is required",
}

// ValidationError lists field-level failures keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the storefront's field rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("field"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "documentid", matches(documentIDPattern))
	mustRegister(v, "displayname", func(s string) bool {
		return displayNamePattern.MatchString(s) && alnumPattern.MatchString(s)
	})
	mustRegister(v, "phone", matches(phonePattern))
	mustRegister(v, "description", matches(descriptionPattern))
	mustRegister(v, "category", matches(categoryPattern))
	mustRegister(v, "servicename", func(s string) bool {
		return serviceNamePattern.MatchString(strings.TrimSpace(s))
	})
	mustRegister(v, "money", func(s string) bool {
		return pricePattern.MatchString(strings.TrimSpace(s))
	})
	mustRegister(v, "nonnegfloat", func(s string) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err == nil && f >= 0
	})
	mustRegister(v, "nonnegint", func(s string) bool {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return err == nil && n >= 0
	})
	return &Validator{v: v}
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

func mustRegister(v *validator.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct validates s and converts failures into a ValidationError.
func (v *Validator) Struct(s any) error {
	return toValidationError(v.v.Struct(s), nil)
}

func toValidationError(err error, extra map[string]string) error {
	fields := map[string]string{}
	for k, msg := range extra {
		fields[k] = msg
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			msg, ok := messages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			if _, exists := fields[fe.Field()]; !exists {
				fields[fe.Field()] = msg
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
