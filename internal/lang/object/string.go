package object

import (
	"fmt"
	"strings"
)

// String is a scriptpp string value. Every method below returns a new
// String (or other Value) rather than mutating s, except the Set side of
// GetRef: index assignment (`s[i] = c`) rewrites s in place.
type String struct{ Value string }

func (s *String) Kind() Kind     { return KindString }
func (s *String) String() string { return s.Value }

// Concat returns s followed by other.
func (s *String) Concat(other *String) *String {
	return &String{Value: s.Value + other.Value}
}

// Repeat returns s concatenated with itself n times (n <= 0 yields "").
func (s *String) Repeat(n int64) *String {
	if n <= 0 {
		return &String{Value: ""}
	}
	return &String{Value: strings.Repeat(s.Value, int(n))}
}

// Size returns the number of bytes in s. scriptpp strings are raw byte
// sequences, not rune-aware, matching the host representation.
func (s *String) Size() int64 { return int64(len(s.Value)) }

// Split divides s on sep and returns the pieces as a List of Strings.
func (s *String) Split(sep string) *List {
	parts := strings.Split(s.Value, sep)
	elems := make([]Value, len(parts))
	for i, p := range parts {
		elems[i] = &String{Value: p}
	}
	return &List{Elements: elems}
}

// Trim removes leading and trailing whitespace.
func (s *String) Trim() *String {
	return &String{Value: strings.TrimSpace(s.Value)}
}

// ByteAt returns the byte at index i as a single-character String, and
// whether i was in range.
func (s *String) ByteAt(i int64) (*String, bool) {
	if i < 0 || i >= int64(len(s.Value)) {
		return nil, false
	}
	return &String{Value: string(s.Value[i])}, true
}

// GetRef returns a Reference to the single character at index i. Its Get
// reads that byte as a single-character String; its Set replaces the byte
// at i with the first byte of the assigned value's String() rendering,
// mutating s in place — the same string-index-assignment semantics as
// `_examples/original_source/lib/scriptpp/runtime/String.cpp`'s
// `String::Get`/`String::Set` (`_str[idx] = val->ToString().at(0)`).
// ok is false if i is out of range.
func (s *String) GetRef(i int64) (Reference, bool) {
	if i < 0 || i >= int64(len(s.Value)) {
		return Reference{}, false
	}
	idx := int(i)
	return Reference{
		Name: "string[]",
		Get: func() (Value, error) {
			return &String{Value: string(s.Value[idx])}, nil
		},
		Set: func(v Value) error {
			repl := v.String()
			if repl == "" {
				return fmt.Errorf("cannot assign an empty string to a string index")
			}
			s.Value = s.Value[:idx] + string(repl[0]) + s.Value[idx+1:]
			return nil
		},
	}, true
}
