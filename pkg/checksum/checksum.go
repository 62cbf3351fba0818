// Package checksum computes and verifies payload digests.
// Digests are lowercase hexadecimal MD5 values: an integrity check against
// accidental corruption, not a defense against deliberate tampering.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Size is the length of a hex-encoded digest.
const Size = md5.Size * 2

// HashFunc constructs the hash used to compute digests.
type HashFunc func() (hash.Hash, error)

// Gate computes and verifies digests with a configurable hash constructor.
type Gate struct {
	newHash HashFunc
}

var std = New(func() (hash.Hash, error) {
	return md5.New(), nil
})

// New creates a Gate that builds a fresh hash for each digest.
func New(fn HashFunc) *Gate {
	return &Gate{newHash: fn}
}

// Digest returns the lowercase hex digest of payload.
func (g *Gate) Digest(payload string) (string, error) {
	h, err := g.newHash()
	if err != nil {
		return "", fmt.Errorf("create hash: %w", err)
	}
	if h == nil {
		return "", fmt.Errorf("create hash: no hash returned")
	}

	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether claimed is the digest of payload.
// Any failure to compute the digest is a verification failure.
func (g *Gate) Verify(payload, claimed string) bool {
	digest, err := g.Digest(payload)
	if err != nil {
		return false
	}
	return digest == normalize(claimed)
}

// Digest returns the lowercase hex MD5 digest of payload.
func Digest(payload string) string {
	d, _ := std.Digest(payload)
	return d
}

// Verify reports whether claimed is the MD5 digest of payload.
// Comparison ignores case and surrounding whitespace.
func Verify(payload, claimed string) bool {
	return std.Verify(payload, claimed)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
