package checksum_test

import (
	"errors"
	"hash"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/JaimeStill/dataserver/pkg/checksum"
)

func TestDigestKnownValues(t *testing.T) {
	tests := []struct {
		payload string
		want    string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"hello", "5d41402abc4b2a76b9719d911017c592"},
		{"The quick brown fox jumps over the lazy dog", "9e107d9d372bb6826bd81d3542a419d6"},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got := checksum.Digest(tt.payload)
			if got != tt.want {
				t.Errorf("Digest(%q) = %s, want %s", tt.payload, got, tt.want)
			}
			if len(got) != checksum.Size {
				t.Errorf("digest length: got %d, want %d", len(got), checksum.Size)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		claimed string
		want    bool
	}{
		{"match", "hello", "5d41402abc4b2a76b9719d911017c592", true},
		{"uppercase claim", "hello", "5D41402ABC4B2A76B9719D911017C592", true},
		{"surrounding whitespace", "hello", " 5d41402abc4b2a76b9719d911017c592\n", true},
		{"mismatch", "hello", "deadbeef", false},
		{"empty claim", "hello", "", false},
		{"digest of other payload", "hello", checksum.Digest("hello!"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checksum.Verify(tt.payload, tt.claimed); got != tt.want {
				t.Errorf("Verify(%q, %q) = %v, want %v", tt.payload, tt.claimed, got, tt.want)
			}
		})
	}
}

func TestGateFailsClosed(t *testing.T) {
	gate := checksum.New(func() (hash.Hash, error) {
		return nil, errors.New("algorithm unavailable")
	})

	if _, err := gate.Digest("hello"); err == nil {
		t.Fatal("expected digest error, got nil")
	}

	// an empty claim must not match the empty digest of a failed computation
	if gate.Verify("hello", "") {
		t.Error("Verify with failing hash returned true for empty claim")
	}
	if gate.Verify("hello", checksum.Digest("hello")) {
		t.Error("Verify with failing hash returned true for correct claim")
	}
}

func TestGateNilHash(t *testing.T) {
	gate := checksum.New(func() (hash.Hash, error) {
		return nil, nil
	})

	if gate.Verify("hello", checksum.Digest("hello")) {
		t.Error("Verify with nil hash returned true")
	}
}

func TestVerifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("payload verifies against its own digest", prop.ForAll(
		func(p string) bool {
			return checksum.Verify(p, checksum.Digest(p))
		},
		gen.AnyString(),
	))

	properties.Property("payload rejects any other claim", prop.ForAll(
		func(p, s string) bool {
			if strings.EqualFold(strings.TrimSpace(s), checksum.Digest(p)) {
				return true
			}
			return !checksum.Verify(p, s)
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("digest is deterministic lowercase hex", prop.ForAll(
		func(p string) bool {
			d := checksum.Digest(p)
			return d == checksum.Digest(p) && d == strings.ToLower(d) && len(d) == checksum.Size
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
