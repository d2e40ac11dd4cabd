// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package sshexec

import (
	"bytes"
	"sync"
)

// MaxOutput caps how much of each output stream is kept.
const MaxOutput = 1 << 20

// limitedBuffer collects command output up to MaxOutput bytes and
// silently drops the rest.  The session copies stdout and stderr from
// separate goroutines, and a cancelled Run reads the buffer while the
// copy may still be going, so it is locked.
type limitedBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if room := MaxOutput - b.buf.Len(); room < len(p) {
		if room > 0 {
			b.buf.Write(p[:room])
		}
	} else {
		b.buf.Write(p)
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}
