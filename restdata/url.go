// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"encoding/base64"
	"strings"
)

// unreserved reports whether r is an "unreserved" character in RFC
// 3986 section 2.3, or a colon.
func unreserved(r rune) bool {
	switch {
	case r == '-', r == '.', r == '_', r == ':':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return false
}

// MaybeEncodeName examines a name, and if it cannot be directly
// inserted into a URL as-is, base64 encodes it.  More specifically,
// the encoded name begins with - and uses the URL-safe base64
// alphabet with no padding.  Empty names and names that begin with
// - are always encoded.
func MaybeEncodeName(name string) string {
	safe := name != "" && name[0] != '-' &&
		strings.IndexFunc(name, func(r rune) bool { return !unreserved(r) }) < 0
	if safe {
		return name
	}
	return "-" + base64.RawURLEncoding.EncodeToString([]byte(name))
}

// MaybeDecodeName examines a name, and if it appears to be base64
// encoded, decodes it.  This function is the dual of
// MaybeEncodeName().  Returns an error if the string begins with -
// and the remainder of the string isn't actually base64 encoded.
func MaybeDecodeName(name string) (string, error) {
	if !strings.HasPrefix(name, "-") {
		return name, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(name[1:])
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
