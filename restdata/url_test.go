// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct{ plain, encoded string }{
		{"foo", "foo"},
		{"n1-nic1-p1", "n1-nic1-p1"},
		{"", "-"},
		{"-", "-LQ"},
		{"\u0000", "-AA"},
		{"TestOrchestrator/TestSubmit", "-VGVzdE9yY2hlc3RyYXRvci9UZXN0U3VibWl0"},
	}
	for _, test := range tests {
		assert.Equal(t, test.encoded, MaybeEncodeName(test.plain),
			"MaybeEncodeName(%q)", test.plain)
		dec, err := MaybeDecodeName(test.encoded)
		if assert.NoError(t, err, test.encoded) {
			assert.Equal(t, test.plain, dec, "MaybeDecodeName(%q)", test.encoded)
		}
	}
}

func TestDecodeBad(t *testing.T) {
	_, err := MaybeDecodeName("-!!")
	assert.Error(t, err)
}
