// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v2"
)

// Dict is a string-keyed mapping that remembers insertion order.  It
// is the result of every facade's ToDict, and marshals to JSON and
// YAML with its keys in order.
type Dict struct {
	keys   []string
	values map[string]interface{}
}

// NewDict creates an empty Dict.
func NewDict() *Dict {
	return &Dict{values: make(map[string]interface{})}
}

// Set stores a value.  A new key goes at the end; an existing key
// keeps its position.
func (d *Dict) Set(key string, value interface{}) *Dict {
	if _, present := d.values[key]; !present {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Get retrieves a value and whether it was present.
func (d *Dict) Get(key string) (interface{}, bool) {
	value, present := d.values[key]
	return value, present
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, present := d.values[key]
	return present
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Map returns an unordered copy of the contents.
func (d *Dict) Map() map[string]interface{} {
	result := make(map[string]interface{}, len(d.keys))
	for key, value := range d.values {
		result[key] = value
	}
	return result
}

// MarshalJSON writes the Dict as a JSON object with keys in order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	json := &codec.JsonHandle{}
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		var field []byte
		err := codec.NewEncoderBytes(&field, json).Encode(key)
		if err != nil {
			return nil, err
		}
		buf.Write(field)
		buf.WriteByte(':')
		field = nil
		err = codec.NewEncoderBytes(&field, json).Encode(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(field)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML produces an ordered YAML mapping.
func (d *Dict) MarshalYAML() (interface{}, error) {
	result := make(yaml.MapSlice, len(d.keys))
	for i, key := range d.keys {
		result[i] = yaml.MapItem{Key: key, Value: d.values[key]}
	}
	return result, nil
}

// projector builds a Dict, calling each accessor only if its key is
// not skipped.
type projector struct {
	dict *Dict
	skip map[string]bool
}

func project(skip []string) *projector {
	p := &projector{dict: NewDict(), skip: make(map[string]bool, len(skip))}
	for _, key := range skip {
		p.skip[key] = true
	}
	return p
}

func (p *projector) str(key string, get func() string) *projector {
	if !p.skip[key] {
		p.dict.Set(key, get())
	}
	return p
}

func (p *projector) value(key string, get func() interface{}) *projector {
	if !p.skip[key] {
		p.dict.Set(key, get())
	}
	return p
}

// templateVar matches {{ _self_.key }} references in a command line
// template.
var templateVar = regexp.MustCompile(`\{\{\s*_self_\.(\w+)\s*\}\}`)

// renderTemplate substitutes values from context into a command line
// template.  Unknown or null keys render as empty strings.
func renderTemplate(template string, context *Dict) string {
	return templateVar.ReplaceAllStringFunc(template, func(match string) string {
		key := templateVar.FindStringSubmatch(match)[1]
		value, present := context.Get(key)
		if !present || value == nil {
			return ""
		}
		return fmt.Sprint(value)
	})
}
