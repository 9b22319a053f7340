package proto

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/walletmigrate/zwif/pkg/parser"
)

// Legacy transaction format constants. Versions 1 and 2 are Sprout, 3 is
// Overwinter, 4 is Sapling. The version word carries the Overwinter flag in
// its top bit, and Overwintered transactions add a version group ID.
const (
	SproutMinTxVersion  = 1
	JoinSplitMinVersion = 2
	OverwinterTxVersion = 3
	SaplingTxVersion    = 4
	overwinterFlagMask  = uint32(1) << 31
	OverwinterGroupID   = 0x03C48270
	SaplingGroupID      = 0x892F2085

	// SproutNoteCiphertextSize is the length of one encrypted Sprout note.
	SproutNoteCiphertextSize = 601
	// SaplingEncCiphertextSize is the length of a Sapling note ciphertext.
	SaplingEncCiphertextSize = 580
	// SaplingOutCiphertextSize is the length of a Sapling outgoing ciphertext.
	SaplingOutCiphertextSize = 80
)

// OutPoint references a specific output of a previous transaction.
type OutPoint struct {
	TxID  TxID
	Index uint32
}

func (o *OutPoint) Decode(p *parser.Parser) error {
	if err := o.TxID.Decode(p); err != nil {
		return errors.Wrap(err, "parsing txid")
	}
	v, err := parser.ReadUint32(p)
	if err != nil {
		return errors.Wrap(err, "parsing index")
	}
	o.Index = v
	return nil
}

// AppendBinary appends the wire encoding of the out point to buf.
func (o OutPoint) AppendBinary(buf []byte) []byte {
	buf = append(buf, o.TxID[:]...)
	return binary.LittleEndian.AppendUint32(buf, o.Index)
}

// TxIn is a transparent transaction input.
type TxIn struct {
	PreviousOutput OutPoint
	ScriptSig      Script
	Sequence       uint32
}

func (in *TxIn) Decode(p *parser.Parser) error {
	if err := in.PreviousOutput.Decode(p); err != nil {
		return errors.Wrap(err, "parsing previous_output")
	}
	if err := in.ScriptSig.Decode(p); err != nil {
		return errors.Wrap(err, "parsing script_sig")
	}
	v, err := parser.ReadUint32(p)
	if err != nil {
		return errors.Wrap(err, "parsing sequence")
	}
	in.Sequence = v
	return nil
}

// AppendBinary appends the wire encoding of the input to buf.
func (in TxIn) AppendBinary(buf []byte) []byte {
	buf = in.PreviousOutput.AppendBinary(buf)
	buf = in.ScriptSig.AppendBinary(buf)
	return binary.LittleEndian.AppendUint32(buf, in.Sequence)
}

// TxOut is a transparent transaction output.
type TxOut struct {
	Value        Amount
	ScriptPubKey Script
}

func (out *TxOut) Decode(p *parser.Parser) error {
	if err := out.Value.Decode(p); err != nil {
		return errors.Wrap(err, "parsing value")
	}
	if err := out.ScriptPubKey.Decode(p); err != nil {
		return errors.Wrap(err, "parsing script_pubkey")
	}
	return nil
}

// AppendBinary appends the wire encoding of the output to buf.
func (out TxOut) AppendBinary(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(out.Value))
	return out.ScriptPubKey.AppendBinary(buf)
}

// JoinSplit is one Sprout JoinSplit description. Its proof field is the one
// place in the legacy format where the wire shape depends on context recorded
// outside the payload: the transaction version selects PHGR13 or Groth16.
type JoinSplit struct {
	VPubOld      Amount
	VPubNew      Amount
	Anchor       Anchor
	Nullifiers   [2]U256
	Commitments  [2]U256
	EphemeralKey U256
	RandomSeed   U256
	MACs         [2]U256
	Proof        SproutProof
	Ciphertexts  [2][SproutNoteCiphertextSize]byte
}

func (js *JoinSplit) DecodeWith(p *parser.Parser, kind ProofKind) error {
	if err := js.VPubOld.Decode(p); err != nil {
		return errors.Wrap(err, "parsing vpub_old")
	}
	if err := js.VPubNew.Decode(p); err != nil {
		return errors.Wrap(err, "parsing vpub_new")
	}
	if err := js.Anchor.Decode(p); err != nil {
		return errors.Wrap(err, "parsing anchor")
	}
	for i := range js.Nullifiers {
		if err := js.Nullifiers[i].Decode(p); err != nil {
			return errors.Wrapf(err, "parsing nullifiers[%d]", i)
		}
	}
	for i := range js.Commitments {
		if err := js.Commitments[i].Decode(p); err != nil {
			return errors.Wrapf(err, "parsing commitments[%d]", i)
		}
	}
	if err := js.EphemeralKey.Decode(p); err != nil {
		return errors.Wrap(err, "parsing ephemeral_key")
	}
	if err := js.RandomSeed.Decode(p); err != nil {
		return errors.Wrap(err, "parsing random_seed")
	}
	for i := range js.MACs {
		if err := js.MACs[i].Decode(p); err != nil {
			return errors.Wrapf(err, "parsing macs[%d]", i)
		}
	}
	if err := js.Proof.DecodeWith(p, kind); err != nil {
		return errors.Wrap(err, "parsing zkproof")
	}
	for i := range js.Ciphertexts {
		if err := parser.ReadExact(p, js.Ciphertexts[i][:]); err != nil {
			return errors.Wrapf(err, "parsing ciphertexts[%d]", i)
		}
	}
	return nil
}

// AppendBinary appends the wire encoding of the JoinSplit to buf.
func (js JoinSplit) AppendBinary(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(js.VPubOld))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(js.VPubNew))
	buf = append(buf, js.Anchor[:]...)
	for i := range js.Nullifiers {
		buf = append(buf, js.Nullifiers[i][:]...)
	}
	for i := range js.Commitments {
		buf = append(buf, js.Commitments[i][:]...)
	}
	buf = append(buf, js.EphemeralKey[:]...)
	buf = append(buf, js.RandomSeed[:]...)
	for i := range js.MACs {
		buf = append(buf, js.MACs[i][:]...)
	}
	buf = append(buf, js.Proof.Bytes()...)
	for i := range js.Ciphertexts {
		buf = append(buf, js.Ciphertexts[i][:]...)
	}
	return buf
}

// SpendDescription is a Sapling shielded spend.
type SpendDescription struct {
	CV           U256
	Anchor       Anchor
	Nullifier    U256
	RK           U256
	Proof        GrothProof
	SpendAuthSig Signature
}

func (s *SpendDescription) Decode(p *parser.Parser) error {
	if err := s.CV.Decode(p); err != nil {
		return errors.Wrap(err, "parsing cv")
	}
	if err := s.Anchor.Decode(p); err != nil {
		return errors.Wrap(err, "parsing anchor")
	}
	if err := s.Nullifier.Decode(p); err != nil {
		return errors.Wrap(err, "parsing nullifier")
	}
	if err := s.RK.Decode(p); err != nil {
		return errors.Wrap(err, "parsing rk")
	}
	if err := s.Proof.Decode(p); err != nil {
		return errors.Wrap(err, "parsing zkproof")
	}
	if err := s.SpendAuthSig.Decode(p); err != nil {
		return errors.Wrap(err, "parsing spend_auth_sig")
	}
	return nil
}

// AppendBinary appends the wire encoding of the spend description to buf.
func (s SpendDescription) AppendBinary(buf []byte) []byte {
	buf = append(buf, s.CV[:]...)
	buf = append(buf, s.Anchor[:]...)
	buf = append(buf, s.Nullifier[:]...)
	buf = append(buf, s.RK[:]...)
	buf = append(buf, s.Proof[:]...)
	return append(buf, s.SpendAuthSig[:]...)
}

// OutputDescription is a Sapling shielded output.
type OutputDescription struct {
	CV            U256
	CMU           U256
	EphemeralKey  U256
	EncCiphertext [SaplingEncCiphertextSize]byte
	OutCiphertext [SaplingOutCiphertextSize]byte
	Proof         GrothProof
}

func (o *OutputDescription) Decode(p *parser.Parser) error {
	if err := o.CV.Decode(p); err != nil {
		return errors.Wrap(err, "parsing cv")
	}
	if err := o.CMU.Decode(p); err != nil {
		return errors.Wrap(err, "parsing cmu")
	}
	if err := o.EphemeralKey.Decode(p); err != nil {
		return errors.Wrap(err, "parsing ephemeral_key")
	}
	if err := parser.ReadExact(p, o.EncCiphertext[:]); err != nil {
		return errors.Wrap(err, "parsing enc_ciphertext")
	}
	if err := parser.ReadExact(p, o.OutCiphertext[:]); err != nil {
		return errors.Wrap(err, "parsing out_ciphertext")
	}
	if err := o.Proof.Decode(p); err != nil {
		return errors.Wrap(err, "parsing zkproof")
	}
	return nil
}

// AppendBinary appends the wire encoding of the output description to buf.
func (o OutputDescription) AppendBinary(buf []byte) []byte {
	buf = append(buf, o.CV[:]...)
	buf = append(buf, o.CMU[:]...)
	buf = append(buf, o.EphemeralKey[:]...)
	buf = append(buf, o.EncCiphertext[:]...)
	buf = append(buf, o.OutCiphertext[:]...)
	return append(buf, o.Proof[:]...)
}

// Transaction is a legacy Zcash transaction, versions 1 through 4. The
// version header resolves every context-dependent shape further down the
// stream, most notably which Sprout proof encoding the JoinSplits carry.
type Transaction struct {
	Version         uint32
	Overwintered    bool
	VersionGroupID  uint32
	Inputs          []TxIn
	Outputs         []TxOut
	LockTime        uint32
	ExpiryHeight    ExpiryHeight
	ValueBalance    ValueBalance
	Spends          []SpendDescription
	ShieldedOutputs []OutputDescription
	JoinSplits      []JoinSplit
	JoinSplitPubKey U256
	JoinSplitSig    Signature
	BindingSig      Signature
}

func (tx *Transaction) Decode(p *parser.Parser) error {
	header, err := parser.ReadUint32(p)
	if err != nil {
		return errors.Wrap(err, "parsing header")
	}
	tx.Overwintered = header&overwinterFlagMask != 0
	tx.Version = header &^ overwinterFlagMask
	if err := tx.checkVersion(); err != nil {
		return err
	}
	if tx.Overwintered {
		tx.VersionGroupID, err = parser.ReadUint32(p)
		if err != nil {
			return errors.Wrap(err, "parsing version_group_id")
		}
		if err := tx.checkVersionGroupID(); err != nil {
			return err
		}
	}
	tx.Inputs, err = parser.DecodeVector[TxIn](p, "vin")
	if err != nil {
		return err
	}
	tx.Outputs, err = parser.DecodeVector[TxOut](p, "vout")
	if err != nil {
		return err
	}
	tx.LockTime, err = parser.ReadUint32(p)
	if err != nil {
		return errors.Wrap(err, "parsing lock_time")
	}
	if tx.Overwintered {
		if err := tx.ExpiryHeight.Decode(p); err != nil {
			return errors.Wrap(err, "parsing expiry_height")
		}
	}
	if tx.Version >= SaplingTxVersion {
		if err := tx.ValueBalance.Decode(p); err != nil {
			return errors.Wrap(err, "parsing value_balance")
		}
		tx.Spends, err = parser.DecodeVector[SpendDescription](p, "shielded_spends")
		if err != nil {
			return err
		}
		tx.ShieldedOutputs, err = parser.DecodeVector[OutputDescription](p, "shielded_outputs")
		if err != nil {
			return err
		}
	}
	if tx.Version >= JoinSplitMinVersion {
		kind := ProofKindForVersion(tx.Version)
		tx.JoinSplits, err = parser.DecodeVectorWith[JoinSplit, ProofKind](p, kind, "joinsplits")
		if err != nil {
			return err
		}
		if len(tx.JoinSplits) > 0 {
			if err := tx.JoinSplitPubKey.Decode(p); err != nil {
				return errors.Wrap(err, "parsing joinsplit_pubkey")
			}
			if err := tx.JoinSplitSig.Decode(p); err != nil {
				return errors.Wrap(err, "parsing joinsplit_sig")
			}
		}
	}
	if tx.Version >= SaplingTxVersion && len(tx.Spends)+len(tx.ShieldedOutputs) > 0 {
		if err := tx.BindingSig.Decode(p); err != nil {
			return errors.Wrap(err, "parsing binding_sig")
		}
	}
	return nil
}

func (tx *Transaction) checkVersion() error {
	if tx.Version < SproutMinTxVersion || tx.Version > SaplingTxVersion {
		return parser.InvalidFixedValueError{Reason: errors.Errorf("unsupported transaction version %d", tx.Version).Error()}
	}
	if tx.Overwintered && tx.Version < OverwinterTxVersion {
		return parser.InvalidFixedValueError{Reason: errors.Errorf("overwinter flag set on version %d transaction", tx.Version).Error()}
	}
	if !tx.Overwintered && tx.Version >= OverwinterTxVersion {
		return parser.InvalidFixedValueError{Reason: errors.Errorf("overwinter flag missing on version %d transaction", tx.Version).Error()}
	}
	return nil
}

func (tx *Transaction) checkVersionGroupID() error {
	switch {
	case tx.Version == OverwinterTxVersion && tx.VersionGroupID == OverwinterGroupID:
		return nil
	case tx.Version == SaplingTxVersion && tx.VersionGroupID == SaplingGroupID:
		return nil
	default:
		return parser.InvalidFixedValueError{
			Reason: errors.Errorf("version group id %08x does not match transaction version %d", tx.VersionGroupID, tx.Version).Error(),
		}
	}
}

// MarshalBinary produces the exact wire encoding the decoder accepts.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	if err := tx.checkVersion(); err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}
	header := tx.Version
	if tx.Overwintered {
		header |= overwinterFlagMask
	}
	buf := binary.LittleEndian.AppendUint32(nil, header)
	if tx.Overwintered {
		buf = binary.LittleEndian.AppendUint32(buf, tx.VersionGroupID)
	}
	buf = parser.AppendCompactSize(buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = in.AppendBinary(buf)
	}
	buf = parser.AppendCompactSize(buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = out.AppendBinary(buf)
	}
	buf = binary.LittleEndian.AppendUint32(buf, tx.LockTime)
	if tx.Overwintered {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(tx.ExpiryHeight))
	}
	if tx.Version >= SaplingTxVersion {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(tx.ValueBalance))
		buf = parser.AppendCompactSize(buf, uint64(len(tx.Spends)))
		for _, s := range tx.Spends {
			buf = s.AppendBinary(buf)
		}
		buf = parser.AppendCompactSize(buf, uint64(len(tx.ShieldedOutputs)))
		for _, o := range tx.ShieldedOutputs {
			buf = o.AppendBinary(buf)
		}
	}
	if tx.Version >= JoinSplitMinVersion {
		buf = parser.AppendCompactSize(buf, uint64(len(tx.JoinSplits)))
		for _, js := range tx.JoinSplits {
			buf = js.AppendBinary(buf)
		}
		if len(tx.JoinSplits) > 0 {
			buf = append(buf, tx.JoinSplitPubKey[:]...)
			buf = append(buf, tx.JoinSplitSig[:]...)
		}
	}
	if tx.Version >= SaplingTxVersion && len(tx.Spends)+len(tx.ShieldedOutputs) > 0 {
		buf = append(buf, tx.BindingSig[:]...)
	}
	return buf, nil
}

// UnmarshalBinary decodes a transaction from a complete buffer, requiring
// whole-buffer consumption.
func (tx *Transaction) UnmarshalBinary(data []byte) error {
	if err := parser.DecodeBuffer(tx, data, nil); err != nil {
		return errors.Wrap(err, "parsing transaction")
	}
	return nil
}

// TxID computes the transaction identifier, the double SHA-256 of the wire
// encoding. Valid for versions 1 through 4 only, v5 identifiers are derived
// differently.
func (tx *Transaction) TxID() (TxID, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return TxID{}, errors.Wrap(err, "failed to compute txid")
	}
	h := sha256.Sum256(raw)
	h = sha256.Sum256(h[:])
	return TxID(h), nil
}
