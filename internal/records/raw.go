package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw is one semi-structured input record: a JSON object with named,
// possibly-absent fields. Typed access goes through the getters below so
// that coercion failures surface uniformly as *RecordError.
type Raw map[string]any

type ErrorCode string

const (
	ErrMalformedRecord  ErrorCode = "malformed_record"
	ErrMissingTimestamp ErrorCode = "missing_timestamp"
	ErrInvalidTimestamp ErrorCode = "invalid_timestamp"
)

type RecordError struct {
	Code  ErrorCode
	Field string
	Key   string // source object the record came from, when known
	Cause error
}

func (e *RecordError) Error() string {
	if e == nil {
		return "record error"
	}
	msg := fmt.Sprintf("%s: field %q", e.Code, e.Field)
	if e.Key != "" {
		msg += fmt.Sprintf(" (source %s)", e.Key)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func malformed(field string, cause error) *RecordError {
	return &RecordError{Code: ErrMalformedRecord, Field: field, Cause: cause}
}

// String reads a required string field. Numeric values coerce to their
// decimal form because the event logs carry user IDs as both.
func (r Raw) String(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", malformed(field, fmt.Errorf("missing"))
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", malformed(field, fmt.Errorf("empty"))
		}
		return s, nil
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", malformed(field, fmt.Errorf("unexpected type %T", v))
	}
}

// OptionalString reads a string field that may be absent or null; absence
// yields the empty string without error.
func (r Raw) OptionalString(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", malformed(field, fmt.Errorf("unexpected type %T", v))
	}
}

func (r Raw) Float(field string) (float64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, malformed(field, fmt.Errorf("missing"))
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, malformed(field, err)
		}
		return f, nil
	default:
		return 0, malformed(field, fmt.Errorf("unexpected type %T", v))
	}
}

// OptionalFloat returns nil for absent or null fields.
func (r Raw) OptionalFloat(field string) (*float64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	f, err := r.Float(field)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r Raw) Int(field string) (int, error) {
	f, err := r.Float(field)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, malformed(field, fmt.Errorf("not an integer: %v", f))
	}
	return int(f), nil
}

func (r Raw) Int64(field string) (int64, error) {
	f, err := r.Float(field)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, malformed(field, fmt.Errorf("not an integer: %v", f))
	}
	return int64(f), nil
}
