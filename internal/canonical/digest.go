package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Digest is a 256-bit content fingerprint.
type Digest [sha256.Size]byte

// Sum computes the digest of raw bytes.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// SumCanonical canonicalizes v and digests the canonical bytes.
func SumCanonical(v any) (Digest, error) {
	data, err := Marshal(v)
	if err != nil {
		return Digest{}, err
	}
	return Sum(data), nil
}

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a 64-character hex digest.
func ParseDigest(s string) (Digest, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("parse digest: %w", err)
	}
	if len(raw) != sha256.Size {
		return Digest{}, fmt.Errorf("parse digest: expected %d bytes, got %d", sha256.Size, len(raw))
	}
	var d Digest
	copy(d[:], raw)
	return d, nil
}

// TreeRoot aggregates leaf digests into one root via a binary hash tree.
// Leaves are first sorted bytewise so the root is independent of input
// order. A single leaf is its own root; an odd node at any level is
// promoted unchanged to the next level.
//
// Membership proofs are not produced; only deterministic aggregation.
func TreeRoot(leaves []Digest) (Digest, error) {
	if len(leaves) == 0 {
		return Digest{}, fmt.Errorf("tree root: no leaves")
	}

	level := make([]Digest, len(leaves))
	copy(level, leaves)
	sort.Slice(level, func(i, j int) bool {
		return bytes.Compare(level[i][:], level[j][:]) < 0
	})

	for len(level) > 1 {
		next := make([]Digest, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			h := sha256.New()
			h.Write(level[i][:])
			h.Write(level[i+1][:])
			var parent Digest
			copy(parent[:], h.Sum(nil))
			next = append(next, parent)
		}
		level = next
	}
	return level[0], nil
}
