// Package sniff guesses whether a file holds text by sampling its first bytes.
package sniff

import (
	"io"

	"github.com/gruntwork-io/ugrep/internal/vfs"
)

const (
	// SampleSize is the number of leading bytes inspected.
	SampleSize = 4096
	// Threshold is the suspicious byte ratio at or above which a sample is considered binary.
	Threshold = 0.30
)

// Kind is the outcome of sniffing a file.
type Kind int

const (
	// Unreadable means the file could not be opened or read, or is empty. Callers skip it silently.
	Unreadable Kind = iota
	// Text files are scanned for matches.
	Text
	// Binary files are never reported.
	Binary
)

func (kind Kind) String() string {
	switch kind {
	case Text:
		return "text"
	case Binary:
		return "binary"
	case Unreadable:
		return "unreadable"
	}

	return "unknown"
}

// Sniff samples the head of the file at path and classifies it.
func Sniff(fs vfs.FS, path string) Kind {
	file, err := fs.Open(path)
	if err != nil {
		return Unreadable
	}
	defer file.Close() //nolint:errcheck

	return SniffReader(file)
}

// SniffReader classifies the first SampleSize bytes of r. A read failure only makes the
// content Unreadable when nothing was read before it; otherwise the partial sample is classified.
func SniffReader(r io.Reader) Kind {
	var buf [SampleSize]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil && n == 0 {
		return Unreadable
	}

	return Classify(buf[:n])
}

// Classify applies the suspicious byte heuristic to a sample.
// An empty sample is Unreadable.
func Classify(sample []byte) Kind {
	if len(sample) == 0 {
		return Unreadable
	}

	suspicious := 0

	for _, c := range sample {
		if IsSuspicious(c) {
			suspicious++
		}
	}

	if float64(suspicious)/float64(len(sample)) < Threshold {
		return Text
	}

	return Binary
}

// IsSuspicious reports whether c is a NUL byte or neither printable nor whitespace
// in the C locale. Bytes outside of ASCII are suspicious.
func IsSuspicious(c byte) bool {
	switch {
	case c == 0:
		return true
	case c >= 0x20 && c <= 0x7e:
		return false
	case c == '\t', c == '\n', c == '\v', c == '\f', c == '\r':
		return false
	}

	return true
}
