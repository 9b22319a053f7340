package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletmigrate/zwif/pkg/parser"
)

func TestSproutProofGroth(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, GrothProofSize)

	var proof SproutProof
	require.NoError(t, parser.DecodeBufferWith(&proof, data, ProofGroth16, nil))
	assert.Equal(t, ProofGroth16, proof.Kind)
	require.NotNil(t, proof.Groth)
	assert.Nil(t, proof.PHGR)
	assert.Equal(t, data, proof.Bytes())
}

func TestSproutProofKindMismatchUnderflows(t *testing.T) {
	// The same 192 bytes that satisfy a Groth16 proof cannot satisfy a
	// PHGR13 proof, which needs 264.
	data := bytes.Repeat([]byte{0x42}, GrothProofSize)

	var proof SproutProof
	err := parser.DecodeBufferWith(&proof, data, ProofPHGR13, nil)
	var underflow parser.BufferUnderflowError
	require.ErrorAs(t, err, &underflow)
	assert.Contains(t, err.Error(), "parsing phgr_proof")
}

func TestSproutProofDeterministicByKind(t *testing.T) {
	// A 264-byte buffer decodes under both discriminants at field level, but
	// the results are distinguishable, one shape is never coerced into the
	// other.
	data := bytes.Repeat([]byte{0x37}, PHGRProofSize)

	var asPHGR SproutProof
	p := parser.New(data)
	require.NoError(t, asPHGR.DecodeWith(p, ProofPHGR13))
	assert.Equal(t, 0, p.Remaining())

	var asGroth SproutProof
	p = parser.New(data)
	require.NoError(t, asGroth.DecodeWith(p, ProofGroth16))
	assert.Equal(t, PHGRProofSize-GrothProofSize, p.Remaining())

	assert.NotEqual(t, asPHGR.Kind, asGroth.Kind)
	assert.NotEqual(t, asPHGR.Bytes(), asGroth.Bytes())
}

func TestSproutProofInvalidDiscriminant(t *testing.T) {
	var proof SproutProof
	err := parser.DecodeBufferWith(&proof, make([]byte, GrothProofSize), ProofKind(0), nil)
	var invalid parser.InvalidDiscriminantError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, invalid.Discriminant)
}

func TestPHGRProofRoundTrip(t *testing.T) {
	data := make([]byte, PHGRProofSize)
	for i := range data {
		data[i] = byte(i)
	}
	var proof PHGRProof
	require.NoError(t, parser.DecodeBuffer(&proof, data, nil))
	assert.Equal(t, data, proof.Bytes())
	// Point order is preserved exactly.
	assert.Equal(t, data[:CompressedG1Size], proof.GA[:])
	assert.Equal(t, data[PHGRProofSize-CompressedG1Size:], proof.GH[:])
}

func TestProofKindForVersion(t *testing.T) {
	assert.Equal(t, ProofPHGR13, ProofKindForVersion(1))
	assert.Equal(t, ProofPHGR13, ProofKindForVersion(2))
	assert.Equal(t, ProofPHGR13, ProofKindForVersion(3))
	assert.Equal(t, ProofGroth16, ProofKindForVersion(4))
}

func TestProofKindString(t *testing.T) {
	assert.Equal(t, "PHGR13", ProofPHGR13.String())
	assert.Equal(t, "Groth16", ProofGroth16.String())
	assert.Equal(t, "ProofKind(9)", ProofKind(9).String())
}
