// Package index holds the two index structures the query evaluators run
// against: the inverted index (term -> documents) and the positional index
// (term -> document -> occurrence positions). Both are built once from
// per-document token streams and are read-only afterwards.
package index

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DocID identifies a document. Corpora name their files either with a number
// ("Document_17.txt" -> 17) or with an arbitrary string, so the identifier is
// a tagged union of the two. The zero value is the empty name ID.
//
// DocID is comparable and can be used as a map key; equality is defined per
// variant (a numeric 7 and a name "7" are distinct documents).
type DocID struct {
	num     int
	name    string
	numeric bool
}

// NumericID returns the DocID for a numeric identifier.
func NumericID(n int) DocID {
	return DocID{num: n, numeric: true}
}

// NameID returns the DocID for a string identifier.
func NameID(s string) DocID {
	return DocID{name: s}
}

// ParseDocID derives a document identifier from a filename. Digits in the
// name are concatenated and parsed as the numeric ID; a name with no digits
// becomes a string ID as-is.
func ParseDocID(filename string) DocID {
	var digits strings.Builder
	for _, r := range filename {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return NameID(filename)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// More digits than fit in an int; fall back to the raw name.
		return NameID(filename)
	}
	return NumericID(n)
}

// IsNumeric reports whether the identifier is the numeric variant.
func (d DocID) IsNumeric() bool { return d.numeric }

// Num returns the numeric value; valid only when IsNumeric is true.
func (d DocID) Num() int { return d.num }

// Name returns the string value; valid only when IsNumeric is false.
func (d DocID) Name() string { return d.name }

func (d DocID) String() string {
	if d.numeric {
		return strconv.Itoa(d.num)
	}
	return d.name
}

// Less defines the presentation order: numeric IDs first in ascending order,
// then name IDs lexicographically.
func (d DocID) Less(other DocID) bool {
	if d.numeric != other.numeric {
		return d.numeric
	}
	if d.numeric {
		return d.num < other.num
	}
	return d.name < other.name
}

// MarshalJSON encodes numeric IDs as JSON numbers and name IDs as strings.
func (d DocID) MarshalJSON() ([]byte, error) {
	if d.numeric {
		return json.Marshal(d.num)
	}
	return json.Marshal(d.name)
}

// MarshalText lets DocID serve as a JSON object key.
func (d DocID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses an all-digit key as the numeric variant and anything
// else as a name. A name that happens to be all digits round-trips to the
// numeric variant; object keys cannot carry the tag.
func (d *DocID) UnmarshalText(text []byte) error {
	if n, err := strconv.Atoi(string(text)); err == nil {
		*d = NumericID(n)
		return nil
	}
	*d = NameID(string(text))
	return nil
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (d *DocID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = NumericID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = NameID(s)
	return nil
}
