// Package validation implements named, declarative rule tables for request
// payloads. Tables are plain data built once at startup; applying one is a
// pure function of the payload and the request's trust flags.
package validation

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"time"

	"github.com/example/dealspot/internal/apperrors"
	"github.com/example/dealspot/internal/trust"
)

// FieldType is the expected JSON shape of a field value.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeInteger
	TypeBool
	TypeTime
	TypeID
	TypeURI
	TypeCoordinates
)

// Rule is one field's constraints within a schema.
type Rule struct {
	Field    string
	Type     FieldType
	Required bool
	// RequiredWithIMEI makes the field mandatory only for requests whose
	// trust flags demand device-bound verification.
	RequiredWithIMEI bool
	MinLen, MaxLen   int
	Min, Max         *float64
	Positive         bool
	Pattern          *regexp.Regexp
	PatternMsg       string
	Enum             []string
}

// CheckKind names a cross-field comparison.
type CheckKind int

const (
	// NumberLTE requires Field <= Other when both are present numbers.
	NumberLTE CheckKind = iota
	// TimeAfter requires Field to be strictly after Other.
	TimeAfter
)

// Check is a declarative cross-field rule; the violation is reported against
// Field.
type Check struct {
	Kind    CheckKind
	Field   string
	Other   string
	Message string
}

// Schema is a closed, named set of field rules for one operation.
type Schema struct {
	Name   string
	Rules  []Rule
	Checks []Check
}

// Validate applies the named schema to the payload. It returns nil when every
// rule passes, or a validation error carrying one entry per violated rule.
func Validate(name string, payload map[string]interface{}, flags trust.Flags) error {
	schema, ok := registry[name]
	if !ok {
		return &apperrors.Error{
			Kind: apperrors.KindStore,
			Op:   "validation.Validate",
			Msg:  fmt.Sprintf("unknown schema %q", name),
		}
	}

	if errs := Apply(schema, payload, flags); len(errs) > 0 {
		return apperrors.Validation("validation."+name, errs)
	}
	return nil
}

// Apply evaluates every rule and check of a schema and returns all
// violations, never stopping at the first one.
func Apply(schema Schema, payload map[string]interface{}, flags trust.Flags) []apperrors.FieldError {
	var errs []apperrors.FieldError

	for _, rule := range schema.Rules {
		value, present := payload[rule.Field]
		if value == nil {
			present = false
		}

		if !present {
			if rule.Required || (rule.RequiredWithIMEI && flags.CheckIMEI) {
				errs = append(errs, apperrors.FieldError{Field: rule.Field, Message: "is required"})
			}
			continue
		}

		errs = append(errs, checkRule(rule, value)...)
	}

	for _, check := range schema.Checks {
		if msg := runCheck(check, payload); msg != "" {
			errs = append(errs, apperrors.FieldError{Field: check.Field, Message: msg})
		}
	}

	return errs
}

func checkRule(rule Rule, value interface{}) []apperrors.FieldError {
	fail := func(msg string) []apperrors.FieldError {
		return []apperrors.FieldError{{Field: rule.Field, Message: msg}}
	}

	switch rule.Type {
	case TypeString, TypeID, TypeURI, TypeTime:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		return checkString(rule, s)

	case TypeNumber, TypeInteger:
		n, ok := value.(float64)
		if !ok {
			return fail("must be a number")
		}
		if rule.Type == TypeInteger && n != math.Trunc(n) {
			return fail("must be an integer")
		}
		return checkNumber(rule, n)

	case TypeBool:
		if _, ok := value.(bool); !ok {
			return fail("must be a boolean")
		}

	case TypeCoordinates:
		pair, ok := value.([]interface{})
		if !ok || len(pair) != 2 {
			return fail("must be a [longitude, latitude] pair")
		}
		lng, okLng := pair[0].(float64)
		lat, okLat := pair[1].(float64)
		if !okLng || !okLat {
			return fail("must contain two numbers")
		}
		if lng < -180 || lng > 180 {
			return fail("longitude must be between -180 and 180")
		}
		if lat < -90 || lat > 90 {
			return fail("latitude must be between -90 and 90")
		}
	}

	return nil
}

func checkString(rule Rule, s string) []apperrors.FieldError {
	fail := func(msg string) []apperrors.FieldError {
		return []apperrors.FieldError{{Field: rule.Field, Message: msg}}
	}

	switch rule.Type {
	case TypeID:
		if !idPattern.MatchString(s) {
			return fail("must be a 24-character hex identifier")
		}
		return nil
	case TypeURI:
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fail("must be a valid URI")
		}
		return nil
	case TypeTime:
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fail("must be an RFC 3339 timestamp")
		}
		return nil
	}

	if rule.MinLen > 0 && len(s) < rule.MinLen {
		return fail(fmt.Sprintf("must be at least %d characters", rule.MinLen))
	}
	if rule.MaxLen > 0 && len(s) > rule.MaxLen {
		return fail(fmt.Sprintf("must be at most %d characters", rule.MaxLen))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
		msg := rule.PatternMsg
		if msg == "" {
			msg = "has an invalid format"
		}
		return fail(msg)
	}
	if len(rule.Enum) > 0 {
		for _, allowed := range rule.Enum {
			if s == allowed {
				return nil
			}
		}
		return fail(fmt.Sprintf("must be one of %v", rule.Enum))
	}
	return nil
}

func checkNumber(rule Rule, n float64) []apperrors.FieldError {
	fail := func(msg string) []apperrors.FieldError {
		return []apperrors.FieldError{{Field: rule.Field, Message: msg}}
	}

	if rule.Positive && n <= 0 {
		return fail("must be greater than zero")
	}
	if rule.Min != nil && n < *rule.Min {
		return fail(fmt.Sprintf("must be at least %v", *rule.Min))
	}
	if rule.Max != nil && n > *rule.Max {
		return fail(fmt.Sprintf("must be at most %v", *rule.Max))
	}
	return nil
}

func runCheck(check Check, payload map[string]interface{}) string {
	switch check.Kind {
	case NumberLTE:
		a, okA := payload[check.Field].(float64)
		b, okB := payload[check.Other].(float64)
		if okA && okB && a > b {
			return check.Message
		}
	case TimeAfter:
		a, okA := parseTimeField(payload[check.Field])
		b, okB := parseTimeField(payload[check.Other])
		if okA && okB && !a.After(b) {
			return check.Message
		}
	}
	return ""
}

func parseTimeField(value interface{}) (time.Time, bool) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var idPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

func floatPtr(v float64) *float64 { return &v }
