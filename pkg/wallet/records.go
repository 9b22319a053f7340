package wallet

import (
	"bytes"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/walletmigrate/zwif/pkg/parser"
	"github.com/walletmigrate/zwif/pkg/proto"
)

// txKeyPrefix marks transaction records in a wallet dump; the rest of the key
// is the raw 32-byte transaction identifier.
var txKeyPrefix = []byte("tx")

// Record is one key/value pair extracted from a legacy wallet dump. This
// layer owns the raw buffers handed to the decode core and resolves any
// external discriminants before invoking parameterized decodes.
type Record struct {
	Key   []byte
	Value []byte
}

// IsTransaction reports whether the record holds a serialized transaction.
func (r Record) IsTransaction() bool {
	return bytes.HasPrefix(r.Key, txKeyPrefix)
}

// TxID extracts the transaction identifier a transaction record was stored
// under.
func (r Record) TxID() (proto.TxID, error) {
	if !r.IsTransaction() {
		return proto.TxID{}, errors.New("not a transaction record")
	}
	id, err := proto.NewTxIDFromBytes(r.Key[len(txKeyPrefix):])
	if err != nil {
		return proto.TxID{}, errors.Wrap(err, "invalid transaction record key")
	}
	return id, nil
}

// ReadRecords splits a wallet dump into its key/value records. Each record is
// a compact size length-prefixed key followed by a compact size
// length-prefixed value; the stream must be consumed exactly.
func ReadRecords(data []byte) ([]Record, error) {
	p := parser.New(data)
	var recs []Record
	for p.Remaining() > 0 {
		key, err := parser.DecodeByteVector(p, "record key")
		if err != nil {
			return nil, errors.Wrapf(err, "parsing record %d", len(recs))
		}
		value, err := parser.DecodeByteVector(p, "record value")
		if err != nil {
			return nil, errors.Wrapf(err, "parsing record %d", len(recs))
		}
		recs = append(recs, Record{Key: key, Value: value})
	}
	return recs, nil
}

// ImportError records why one wallet record was skipped during a lenient
// import. The full context chain of the decode failure is preserved in Err.
type ImportError struct {
	Index int
	Key   []byte
	Err   error
}

func (e ImportError) Error() string {
	return errors.Wrapf(e.Err, "record %d", e.Index).Error()
}

func (e ImportError) Unwrap() error {
	return e.Err
}

// Transactions decodes every transaction record, skipping malformed ones and
// reporting them alongside the successes. The decode core never chooses this
// policy itself, it only reports precise failures; skipping is an import
// decision made here.
func Transactions(recs []Record, log *slog.Logger) ([]proto.Transaction, []ImportError) {
	var txs []proto.Transaction
	var failed []ImportError
	for i, r := range recs {
		if !r.IsTransaction() {
			continue
		}
		var tx proto.Transaction
		if err := parser.DecodeBuffer(&tx, r.Value, nil); err != nil {
			err = errors.Wrap(err, "parsing transaction")
			failed = append(failed, ImportError{Index: i, Key: r.Key, Err: err})
			if log != nil {
				log.Warn("skipping malformed transaction record",
					slog.Int("record", i),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		txs = append(txs, tx)
	}
	return txs, failed
}

// TransactionsStrict decodes every transaction record and aborts the whole
// import on the first malformed one.
func TransactionsStrict(recs []Record) ([]proto.Transaction, error) {
	var txs []proto.Transaction
	for i, r := range recs {
		if !r.IsTransaction() {
			continue
		}
		var tx proto.Transaction
		if err := parser.DecodeBuffer(&tx, r.Value, nil); err != nil {
			return nil, errors.Wrapf(err, "parsing transaction record %d", i)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// AppendRecord appends the wire encoding of one record to buf. Used by tests
// and by tooling that repacks wallet dumps.
func AppendRecord(buf []byte, r Record) []byte {
	buf = parser.AppendCompactSize(buf, uint64(len(r.Key)))
	buf = append(buf, r.Key...)
	buf = parser.AppendCompactSize(buf, uint64(len(r.Value)))
	return append(buf, r.Value...)
}
