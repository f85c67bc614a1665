// Package routeid parses the dash-joined id paths used by the public browse
// routes, e.g. "4-9-17" for department 4, year 9, semester 17.
package routeid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a composite id cannot be parsed.
var ErrMalformed = errors.New("malformed route id")

const separator = "-"

// Parse splits raw on dashes and requires exactly want positive integer segments.
func Parse(raw string, want int) ([]int64, error) {
	ids, err := parseAll(raw)
	if err != nil {
		return nil, err
	}
	if len(ids) != want {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrMalformed, want, len(ids))
	}
	return ids, nil
}

// ParseTrailing accepts one or more segments and returns all of them. The
// entity id is the last element.
func ParseTrailing(raw string) ([]int64, error) {
	return parseAll(raw)
}

// Last returns the final segment of ids.
func Last(ids []int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Join renders ids in route form.
func Join(ids ...int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, separator)
}

func parseAll(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	parts := strings.Split(raw, separator)
	ids := make([]int64, len(parts))
	for i, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 || strings.HasPrefix(part, "+") {
			return nil, fmt.Errorf("%w: segment %q", ErrMalformed, part)
		}
		ids[i] = id
	}
	return ids, nil
}
