package wallet

import (
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/walletmigrate/zwif/pkg/proto"
)

// snapshotCurrentVersion increments whenever the snapshot layout changes.
const snapshotCurrentVersion = 1

// Snapshot is a CBOR interchange file of decoded transactions. It consumes
// already-decoded values only and never touches the binary decode core.
type Snapshot struct {
	Version      uint32              `cbor:"1,keyasint"`
	Transactions []TransactionRecord `cbor:"2,keyasint"`
}

// TransactionRecord pairs a computed identifier with the original wire bytes
// so the source encoding survives the round trip exactly.
type TransactionRecord struct {
	TxID    string `cbor:"1,keyasint"`
	Version uint32 `cbor:"2,keyasint"`
	Raw     []byte `cbor:"3,keyasint"`
}

// BuildSnapshot re-serializes decoded transactions into a snapshot.
func BuildSnapshot(txs []proto.Transaction) (*Snapshot, error) {
	s := &Snapshot{Version: snapshotCurrentVersion}
	for i := range txs {
		raw, err := txs[i].MarshalBinary()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal transaction %d", i)
		}
		id, err := txs[i].TxID()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to identify transaction %d", i)
		}
		s.Transactions = append(s.Transactions, TransactionRecord{
			TxID:    id.String(),
			Version: txs[i].Version,
			Raw:     raw,
		})
	}
	return s, nil
}

// WriteSnapshot marshals the snapshot to CBOR and writes it to path.
func WriteSnapshot(path string, s *Snapshot) error {
	data, err := cbor.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write snapshot file")
	}
	return nil
}

// ReadSnapshot reads and unmarshals a snapshot file, rejecting unknown
// versions.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot file")
	}
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}
	if s.Version != snapshotCurrentVersion {
		return nil, errors.Errorf("unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}
