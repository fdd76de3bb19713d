package state

import (
	"fmt"

	"github.com/notargets/gofvm/types"
)

// Schema names the fields of a state vector. The first NumConservative
// fields are the conserved quantities the scheme updates, the remainder are
// derived from them by the model.
type Schema struct {
	name            string
	fields          []string
	index           map[string]int
	numConservative int
}

func NewSchema(name string, fields []string, numConservative int) (s *Schema, err error) {
	if len(fields) == 0 {
		err = types.NewConfigurationError("schema "+name, "no fields")
		return
	}
	if numConservative < 1 || numConservative > len(fields) {
		err = types.NewConfigurationError("schema "+name,
			"conservative field count %d outside [1,%d]", numConservative, len(fields))
		return
	}
	s = &Schema{
		name:            name,
		fields:          make([]string, len(fields)),
		index:           make(map[string]int, len(fields)),
		numConservative: numConservative,
	}
	copy(s.fields, fields)
	for i, f := range fields {
		if f == "" {
			err = types.NewConfigurationError("schema "+name, "field %d has an empty name", i)
			return nil, err
		}
		if _, dup := s.index[f]; dup {
			err = types.NewConfigurationError("schema "+name, "duplicate field %q", f)
			return nil, err
		}
		s.index[f] = i
	}
	return
}

// MustNewSchema is for package level schema definitions
func MustNewSchema(name string, fields []string, numConservative int) *Schema {
	s, err := NewSchema(name, fields, numConservative)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string         { return s.name }
func (s *Schema) Len() int             { return len(s.fields) }
func (s *Schema) NumConservative() int { return s.numConservative }

// Fields returns a copy of the ordered field names
func (s *Schema) Fields() []string {
	f := make([]string, len(s.fields))
	copy(f, s.fields)
	return f
}

func (s *Schema) Field(i int) string { return s.fields[i] }

func (s *Schema) Index(field string) (i int, err error) {
	var ok bool
	if i, ok = s.index[field]; !ok {
		err = &types.SchemaError{Schema: s.name, Field: field, Reason: "no such field"}
		i = -1
	}
	return
}

func (s *Schema) MustIndex(field string) int {
	i, err := s.Index(field)
	if err != nil {
		panic(err)
	}
	return i
}

func (s *Schema) Has(field string) bool {
	_, ok := s.index[field]
	return ok
}

// Indices resolves several field names at once, failing on the first absent one
func (s *Schema) Indices(fields ...string) (idx []int, err error) {
	idx = make([]int, len(fields))
	for n, f := range fields {
		if idx[n], err = s.Index(f); err != nil {
			return nil, err
		}
	}
	return
}

// Compatible checks that other carries every named field, or every field of
// s when no names are given. Compatibility is by name, not by position.
func (s *Schema) Compatible(other *Schema, fields ...string) error {
	if other == nil {
		return &types.SchemaError{Schema: s.name, Reason: "nil schema"}
	}
	if s == other {
		return nil
	}
	if len(fields) == 0 {
		fields = s.fields
	}
	for _, f := range fields {
		if !other.Has(f) {
			return &types.SchemaError{Schema: other.name, Field: f,
				Reason: fmt.Sprintf("required by schema %q", s.name)}
		}
	}
	return nil
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s%v (conservative %v)", s.name, s.fields, s.fields[:s.numConservative])
}
