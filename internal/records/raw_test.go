package records

import (
	"errors"
	"testing"
)

func TestRawStringCoercesNumbers(t *testing.T) {
	rec := Raw{"userId": float64(26)}
	got, err := rec.String("userId")
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	if got != "26" {
		t.Fatalf("want=%q got=%q", "26", got)
	}
}

func TestRawStringMissingIsMalformed(t *testing.T) {
	rec := Raw{}
	_, err := rec.String("title")
	var re *RecordError
	if !errors.As(err, &re) {
		t.Fatalf("expected RecordError, got=%T", err)
	}
	if re.Code != ErrMalformedRecord {
		t.Fatalf("code: want=%q got=%q", ErrMalformedRecord, re.Code)
	}
	if re.Field != "title" {
		t.Fatalf("field: want=%q got=%q", "title", re.Field)
	}
}

func TestRawOptionalFloatNull(t *testing.T) {
	rec := Raw{"artist_latitude": nil}
	got, err := rec.OptionalFloat("artist_latitude")
	if err != nil {
		t.Fatalf("optional float: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for null field, got=%v", *got)
	}
}

func TestRawIntRejectsFraction(t *testing.T) {
	rec := Raw{"year": 1999.5}
	_, err := rec.Int("year")
	var re *RecordError
	if !errors.As(err, &re) {
		t.Fatalf("expected RecordError, got=%T", err)
	}
}

func TestRawInt64FromEpochMillis(t *testing.T) {
	rec := Raw{"ts": float64(1541121934796)}
	got, err := rec.Int64("ts")
	if err != nil {
		t.Fatalf("int64: %v", err)
	}
	if got != 1541121934796 {
		t.Fatalf("want=%d got=%d", int64(1541121934796), got)
	}
}

func TestRawFloatFromString(t *testing.T) {
	rec := Raw{"length": "210.5"}
	got, err := rec.Float("length")
	if err != nil {
		t.Fatalf("float: %v", err)
	}
	if got != 210.5 {
		t.Fatalf("want=210.5 got=%v", got)
	}
}
