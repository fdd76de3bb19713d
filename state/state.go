package state

import (
	"fmt"

	"github.com/notargets/gofvm/types"
)

// State is a single state vector laid out by its Schema
type State struct {
	Schema *Schema
	Values []float64
}

func New(schema *Schema) State {
	return State{Schema: schema, Values: make([]float64, schema.Len())}
}

// FromValues wraps values without copying
func FromValues(schema *Schema, values []float64) (s State, err error) {
	if len(values) != schema.Len() {
		err = &types.SchemaError{Schema: schema.Name(),
			Reason: fmt.Sprintf("state has %d values, schema has %d fields", len(values), schema.Len())}
		return
	}
	s = State{Schema: schema, Values: values}
	return
}

func (s State) Get(field string) (v float64, err error) {
	var i int
	if i, err = s.Schema.Index(field); err != nil {
		return
	}
	v = s.Values[i]
	return
}

func (s State) Set(field string, v float64) (err error) {
	var i int
	if i, err = s.Schema.Index(field); err != nil {
		return
	}
	s.Values[i] = v
	return
}

func (s State) At(i int) float64       { return s.Values[i] }
func (s State) SetAt(i int, v float64) { s.Values[i] = v }

// Conservative is a view on the conservative prefix, writes go through
func (s State) Conservative() []float64 {
	return s.Values[:s.Schema.NumConservative()]
}

func (s State) SetConservative(v []float64) (err error) {
	nc := s.Schema.NumConservative()
	if len(v) != nc {
		err = &types.SchemaError{Schema: s.Schema.Name(),
			Reason: fmt.Sprintf("%d conservative values given, schema has %d", len(v), nc)}
		return
	}
	copy(s.Values[:nc], v)
	return
}

func (s State) Copy() State {
	v := make([]float64, len(s.Values))
	copy(v, s.Values)
	return State{Schema: s.Schema, Values: v}
}

// Add returns the elementwise sum, both states must share a schema
func (s State) Add(o State) (r State, err error) {
	if s.Schema != o.Schema {
		if err = s.Schema.Compatible(o.Schema); err != nil {
			return
		}
		if s.Schema.Len() != o.Schema.Len() {
			err = &types.SchemaError{Schema: o.Schema.Name(), Reason: "length differs"}
			return
		}
	}
	r = s.Copy()
	for i := range r.Values {
		r.Values[i] += o.Values[i]
	}
	return
}

func (s State) Scale(a float64) State {
	r := s.Copy()
	for i := range r.Values {
		r.Values[i] *= a
	}
	return r
}
