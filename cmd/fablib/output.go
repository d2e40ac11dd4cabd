// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"encoding/json"
	"io"

	"github.com/diffeo/go-fablib/fablib"
	"gopkg.in/yaml.v2"
)

// render writes dicts to out as an indented JSON array or a YAML
// sequence.  Key order within each dict is preserved.
func render(out io.Writer, format string, dicts []*fablib.Dict) error {
	if dicts == nil {
		dicts = []*fablib.Dict{}
	}
	var (
		bytes []byte
		err   error
	)
	switch format {
	case "yaml":
		bytes, err = yaml.Marshal(dicts)
	default:
		bytes, err = json.MarshalIndent(dicts, "", "  ")
		bytes = append(bytes, '\n')
	}
	if err != nil {
		return err
	}
	_, err = out.Write(bytes)
	return err
}
