package mtag

import (
	"strconv"
	"strings"
	"time"

	"github.com/simonhull/mtag/internal/types"
)

// Raw is the unparsed input of one field: whether its flag was given, and
// the value of every occurrence in command-line order.
type Raw struct {
	Present bool
	Values  []string
}

// Given returns the Raw input of a flag that occurred with the values.
func Given(values ...string) Raw {
	return Raw{Present: true, Values: values}
}

// last returns the value of the final occurrence.
func (r Raw) last() string {
	if len(r.Values) == 0 {
		return ""
	}
	return r.Values[len(r.Values)-1]
}

// resolveString maps a missing flag to Absent, an empty value to Clear and
// anything else to Set. Any string is valid, so it never fails.
func resolveString(_ Field, raw Raw) (FieldValue[string], error) {
	if !raw.Present {
		return Absent[string](), nil
	}
	v := raw.last()
	if v == "" {
		return Clear[string](), nil
	}
	return Set(v), nil
}

// resolveList splits every occurrence on commas. Tokens are trimmed; if no
// token is left the field is cleared, and an empty token next to a
// non-empty one is rejected.
func resolveList(field Field, raw Raw) (FieldValue[[]string], error) {
	if !raw.Present {
		return Absent[[]string](), nil
	}

	var tokens []string
	empty := false
	for _, v := range raw.Values {
		for tok := range strings.SplitSeq(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				empty = true
				continue
			}
			tokens = append(tokens, tok)
		}
	}

	switch {
	case len(tokens) == 0:
		return Clear[[]string](), nil
	case empty:
		return Absent[[]string](), &ConfigError{
			Field:  field.String(),
			Value:  strings.Join(raw.Values, ","),
			Reason: "empty list entry",
		}
	}
	return Set(tokens), nil
}

// resolveScalar resolves a single value and parses it when set.
func resolveScalar[T any](field Field, raw Raw, parse func(string) (T, string)) (FieldValue[T], error) {
	s, err := resolveString(field, raw)
	if err != nil {
		return Absent[T](), err
	}
	v, ok := s.Value()
	if !ok {
		return FieldValue[T]{state: s.State()}, nil
	}
	parsed, reason := parse(v)
	if reason != "" {
		return Absent[T](), &ConfigError{Field: field.String(), Value: v, Reason: reason}
	}
	return Set(parsed), nil
}

func resolveUint16(field Field, raw Raw) (FieldValue[uint16], error) {
	return resolveScalar(field, raw, parseUint16)
}

func parseUint16(s string) (uint16, string) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, "expected an integer from 0 to 65535"
	}
	return uint16(n), ""
}

// resolvePair parses "N/TOTAL" and rejects N greater than TOTAL.
func resolvePair(field Field, raw Raw) (FieldValue[Pair], error) {
	return resolveScalar(field, raw, func(s string) (Pair, string) {
		left, right, ok := strings.Cut(s, "/")
		if !ok {
			return Pair{}, "expected N/TOTAL"
		}
		n, reason := parseUint16(left)
		if reason != "" {
			return Pair{}, "number: " + reason
		}
		total, reason := parseUint16(right)
		if reason != "" {
			return Pair{}, "total: " + reason
		}
		if n > total {
			return Pair{}, "number is greater than total"
		}
		return Pair{Number: n, Total: total}, ""
	})
}

func resolveMediaType(field Field, raw Raw) (FieldValue[MediaType], error) {
	return resolveScalar(field, raw, func(s string) (MediaType, string) {
		m, ok := types.ParseMediaType(s)
		if !ok {
			return 0, "expected one of " + strings.Join(types.MediaTypeNames(), ", ")
		}
		return m, ""
	})
}

// yearLayouts are the accepted forms of a release date.
var yearLayouts = []string{"2006", "2006-01-02", time.RFC3339}

// resolveYear validates the date and keeps it as typed.
func resolveYear(field Field, raw Raw) (FieldValue[string], error) {
	return resolveScalar(field, raw, func(s string) (string, string) {
		for _, layout := range yearLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return s, ""
			}
		}
		return "", "expected YYYY, YYYY-MM-DD or an RFC 3339 timestamp"
	})
}

// resolveArtwork loads the image once the path resolves to Set.
func resolveArtwork(field Field, raw Raw) (FieldValue[Image], error) {
	path, err := resolveString(field, raw)
	if err != nil {
		return Absent[Image](), err
	}
	p, ok := path.Value()
	if !ok {
		return FieldValue[Image]{state: path.State()}, nil
	}
	img, err := LoadImage(p)
	if err != nil {
		return Absent[Image](), err
	}
	return Set(img), nil
}
