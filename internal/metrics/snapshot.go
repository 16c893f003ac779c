package metrics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMissingInput matches every *MissingInputError via errors.Is.
var ErrMissingInput = errors.New("metric input unavailable")

// MissingInputError reports an input that is absent or not a finite number.
type MissingInputError struct {
	Key    string
	Raw    string
	Absent bool
}

func (e *MissingInputError) Error() string {
	if e.Absent {
		return fmt.Sprintf("input %s is absent", e.Key)
	}
	return fmt.Sprintf("input %s is not a finite number: %q", e.Key, e.Raw)
}

// Is lets errors.Is(err, ErrMissingInput) match.
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// Snapshot is an explicit copy of the input states a metric is computed from.
type Snapshot map[string]string

// Float parses the state of key. NaN and infinities count as missing.
func (s Snapshot) Float(key string) (float64, error) {
	raw, ok := s[key]
	if !ok {
		return 0, &MissingInputError{Key: key, Absent: true}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MissingInputError{Key: key, Raw: raw}
	}
	return v, nil
}

// Text returns the state of key, failing when it is absent or empty.
func (s Snapshot) Text(key string) (string, error) {
	raw, ok := s[key]
	if !ok || raw == "" {
		return "", &MissingInputError{Key: key, Absent: true}
	}
	return raw, nil
}

// Sum adds the states of keys, failing on the first missing input.
func (s Snapshot) Sum(keys ...string) (float64, error) {
	var total float64
	for _, key := range keys {
		v, err := s.Float(key)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
