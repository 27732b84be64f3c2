// Package validation turns raw form input into a normalized
// prediction.PredictionRequest. It has no side effects and never contacts the
// back end.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/prediction"
)

// DateLayout is the canonical calendar date format sent to the back end.
const DateLayout = "2006-01-02"

// Field names used in validation errors, in check order.
const (
	FieldSymbol         = "symbol"
	FieldStartDate      = "startDate"
	FieldEndDate        = "endDate"
	FieldModel          = "model"
	FieldSpectralRadius = "spectralRadius"
)

// canonicalDate matches dates that are sent verbatim.
var canonicalDate = regexp.MustCompile(`^(?:19|20)\d{2}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// dateLayouts are tried in order for dates that are not already canonical.
var dateLayouts = []string{
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-1-2",
	"20060102",
}

// RawInput is the untrusted form content.
type RawInput struct {
	Symbol    string
	StartDate string
	EndDate   string
	Interval  string
	Model     string
	// SpectralRadius is optional. Empty means the default.
	SpectralRadius string
}

// Validate checks raw and returns a normalized request without an ID.
// A blank required field is reported before any malformed one. Otherwise the
// first failing field is reported. Both are apperrors.ValidationError.
func Validate(raw RawInput) (prediction.PredictionRequest, error) {
	var req prediction.PredictionRequest

	if blank := MissingFields(raw); len(blank) > 0 {
		return req, missing(blank[0])
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(raw.Symbol))

	start, startTime, err := normalizeDateField(FieldStartDate, raw.StartDate)
	if err != nil {
		return req, err
	}
	end, endTime, err := normalizeDateField(FieldEndDate, raw.EndDate)
	if err != nil {
		return req, err
	}
	if endTime.Before(startTime) {
		return req, apperrors.ValidationError{
			Field:   FieldEndDate,
			Kind:    apperrors.Malformed,
			Message: fmt.Sprintf("end date %s is before start date %s", end, start),
		}
	}
	req.StartDate, req.EndDate = start, end

	model, err := prediction.ParseModel(strings.TrimSpace(raw.Model))
	if err != nil {
		return req, apperrors.ValidationError{Field: FieldModel, Kind: apperrors.Malformed, Message: err.Error()}
	}
	req.Model = model

	if sr := strings.TrimSpace(raw.SpectralRadius); sr != "" {
		v, err := strconv.ParseFloat(sr, 64)
		if err != nil {
			return req, apperrors.ValidationError{
				Field:   FieldSpectralRadius,
				Kind:    apperrors.Malformed,
				Message: fmt.Sprintf("spectral radius %q is not a number", sr),
			}
		}
		req.SpectralRadius = v
	}

	req.Interval = strings.TrimSpace(raw.Interval)
	if req.Interval == "" {
		req.Interval = prediction.DefaultInterval
	}
	return req, nil
}

// MissingFields lists the required fields that are blank, in check order.
func MissingFields(raw RawInput) []string {
	var out []string
	for _, f := range []struct{ name, value string }{
		{FieldSymbol, raw.Symbol},
		{FieldStartDate, raw.StartDate},
		{FieldEndDate, raw.EndDate},
		{FieldModel, raw.Model},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// NormalizeDate returns s in DateLayout. Canonical input is returned
// unchanged.
func NormalizeDate(s string) (string, error) {
	out, _, err := parseDate(strings.TrimSpace(s))
	return out, err
}

// NormalizeTime formats t as a calendar date.
func NormalizeTime(t time.Time) string {
	return t.Format(DateLayout)
}

func normalizeDateField(field, value string) (string, time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", time.Time{}, missing(field)
	}
	out, t, err := parseDate(value)
	if err != nil {
		return "", time.Time{}, apperrors.ValidationError{Field: field, Kind: apperrors.Malformed, Message: err.Error()}
	}
	return out, t, nil
}

func parseDate(s string) (string, time.Time, error) {
	if canonicalDate.MatchString(s) {
		// The pattern admits days such as 02-31. Those are kept verbatim and
		// ordered by their normalized equivalent.
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			t = lenientCanonical(s)
		}
		return s, t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeTime(t), t, nil
		}
	}
	return "", time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func lenientCanonical(s string) time.Time {
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func missing(field string) error {
	return apperrors.ValidationError{
		Field:   field,
		Kind:    apperrors.MissingField,
		Message: field + " is required",
	}
}
