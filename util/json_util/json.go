// Package json_util holds JSON helpers shared by the database models.
package json_util

import (
	"errors"
)

// RawMessage stores raw JSON bytes for the user config column. Unlike
// encoding/json's RawMessage, an empty value marshals as null, which keeps an
// unset config NULL rather than turning it into an empty array.
type RawMessage []byte

// MarshalJSON returns m unchanged, or null when m is empty.
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON replaces *m with a copy of data.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("json_util.RawMessage: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}
