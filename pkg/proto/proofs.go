package proto

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"

	"github.com/walletmigrate/zwif/pkg/parser"
)

const (
	// GrothProofSize is the length of a Groth16 zk-SNARK proof: two 48-byte
	// G1 points around one 96-byte G2 point.
	GrothProofSize = 48 + 96 + 48
	// CompressedG1Size is a compressed BN-254 G1 point, a format byte
	// followed by the 32-byte field element.
	CompressedG1Size = 33
	// PHGRProofSize is the length of a Sprout-era PHGR13 proof, eight
	// compressed G1 points.
	PHGRProofSize = 8 * CompressedG1Size
)

// GrothProof is a Groth16 proof used by Sapling descriptions and by Sprout
// JoinSplits after the Sapling network upgrade. The bytes are opaque to this
// package, it only delimits and copies them.
type GrothProof [GrothProofSize]byte

func (g *GrothProof) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, g[:])
}

func (g GrothProof) String() string {
	return hex.EncodeToString(g[:])
}

// CompressedG1 is a compressed G1 elliptic curve point.
type CompressedG1 [CompressedG1Size]byte

func (c *CompressedG1) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, c[:])
}

// PHGRProof is a Sprout-era PHGR13 zk-SNARK proof. The point order is part of
// the proof's validity and is preserved exactly as stored.
type PHGRProof struct {
	GA      CompressedG1
	GAPrime CompressedG1
	GB      CompressedG1
	GBPrime CompressedG1
	GC      CompressedG1
	GCPrime CompressedG1
	GK      CompressedG1
	GH      CompressedG1
}

func (pr *PHGRProof) Decode(p *parser.Parser) error {
	for _, f := range []struct {
		label string
		dst   *CompressedG1
	}{
		{"g_a", &pr.GA},
		{"g_a_prime", &pr.GAPrime},
		{"g_b", &pr.GB},
		{"g_b_prime", &pr.GBPrime},
		{"g_c", &pr.GC},
		{"g_c_prime", &pr.GCPrime},
		{"g_k", &pr.GK},
		{"g_h", &pr.GH},
	} {
		if err := f.dst.Decode(p); err != nil {
			return errors.Wrapf(err, "parsing %s", f.label)
		}
	}
	return nil
}

// Bytes returns the 264-byte concatenation of the eight points.
func (pr PHGRProof) Bytes() []byte {
	out := make([]byte, 0, PHGRProofSize)
	for _, g := range [...]CompressedG1{pr.GA, pr.GAPrime, pr.GB, pr.GBPrime, pr.GC, pr.GCPrime, pr.GK, pr.GH} {
		out = append(out, g[:]...)
	}
	return out
}

// ProofKind selects which of the two mutually exclusive Sprout proof
// encodings follows. The kind is never present in the proof's own bytes, it
// is recorded elsewhere in the record (the transaction version), so the
// caller must resolve it before decoding.
type ProofKind byte

const (
	// ProofPHGR13 is the 264-byte proof used before the Sapling upgrade.
	ProofPHGR13 ProofKind = iota + 1
	// ProofGroth16 is the 192-byte proof used from Sapling onward.
	ProofGroth16
)

func (k ProofKind) String() string {
	switch k {
	case ProofPHGR13:
		return "PHGR13"
	case ProofGroth16:
		return "Groth16"
	default:
		return fmt.Sprintf("ProofKind(%d)", byte(k))
	}
}

// ProofKindForVersion resolves the JoinSplit proof discriminant from the
// transaction version, the place the legacy format records it.
func ProofKindForVersion(version uint32) ProofKind {
	if version >= SaplingTxVersion {
		return ProofGroth16
	}
	return ProofPHGR13
}

// SproutProof holds exactly one of the two proof shapes. The two encodings
// are fixed-size with no length prefix or magic byte, so they are not
// distinguishable from the bytes alone and are never decoded speculatively.
type SproutProof struct {
	Kind  ProofKind
	PHGR  *PHGRProof
	Groth *GrothProof
}

func (s *SproutProof) DecodeWith(p *parser.Parser, kind ProofKind) error {
	switch kind {
	case ProofPHGR13:
		var pr PHGRProof
		if err := pr.Decode(p); err != nil {
			return errors.Wrap(err, "parsing phgr_proof")
		}
		*s = SproutProof{Kind: kind, PHGR: &pr}
		return nil
	case ProofGroth16:
		var gr GrothProof
		if err := gr.Decode(p); err != nil {
			return errors.Wrap(err, "parsing groth_proof")
		}
		*s = SproutProof{Kind: kind, Groth: &gr}
		return nil
	default:
		return parser.InvalidDiscriminantError{Discriminant: int(kind)}
	}
}

// Bytes returns the proof's wire bytes regardless of kind.
func (s SproutProof) Bytes() []byte {
	switch s.Kind {
	case ProofPHGR13:
		return s.PHGR.Bytes()
	case ProofGroth16:
		out := make([]byte, GrothProofSize)
		copy(out, s.Groth[:])
		return out
	default:
		return nil
	}
}
