package wallet

import (
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletmigrate/zwif/pkg/parser"
	"github.com/walletmigrate/zwif/pkg/proto"
)

func sampleTransaction(t *testing.T, lockTime uint32) (proto.Transaction, []byte) {
	t.Helper()
	tx := proto.Transaction{
		Version: 1,
		Outputs: []proto.TxOut{{
			Value:        1000,
			ScriptPubKey: proto.Script{0x51},
		}},
		LockTime: lockTime,
	}
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return tx, raw
}

func txRecord(t *testing.T, tx proto.Transaction, raw []byte) Record {
	t.Helper()
	id, err := tx.TxID()
	require.NoError(t, err)
	return Record{Key: append([]byte("tx"), id.Bytes()...), Value: raw}
}

func TestReadRecordsRoundTrip(t *testing.T) {
	tx, raw := sampleTransaction(t, 1)
	recs := []Record{
		{Key: []byte("version"), Value: []byte{0x01}},
		txRecord(t, tx, raw),
		{Key: []byte("bestblock"), Value: make([]byte, 32)},
	}
	var dump []byte
	for _, r := range recs {
		dump = AppendRecord(dump, r)
	}

	got, err := ReadRecords(dump)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
	assert.False(t, got[0].IsTransaction())
	assert.True(t, got[1].IsTransaction())
}

func TestReadRecordsEmpty(t *testing.T) {
	recs, err := ReadRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadRecordsTruncated(t *testing.T) {
	dump := AppendRecord(nil, Record{Key: []byte("k"), Value: []byte("v")})
	_, err := ReadRecords(dump[:len(dump)-1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing record 0")
	var underflow parser.BufferUnderflowError
	assert.ErrorAs(t, err, &underflow)
}

func TestRecordTxID(t *testing.T) {
	tx, raw := sampleTransaction(t, 2)
	r := txRecord(t, tx, raw)

	id, err := r.TxID()
	require.NoError(t, err)
	want, err := tx.TxID()
	require.NoError(t, err)
	assert.Equal(t, want, id)

	_, err = Record{Key: []byte("version")}.TxID()
	assert.Error(t, err)

	_, err = Record{Key: []byte("tx1234")}.TxID()
	assert.Error(t, err)
}

func TestTransactionsLenient(t *testing.T) {
	tx1, raw1 := sampleTransaction(t, 1)
	tx2, raw2 := sampleTransaction(t, 2)
	recs := []Record{
		{Key: []byte("version"), Value: []byte{0x01}},
		txRecord(t, tx1, raw1),
		{Key: []byte("txjunkjunkjunkjunkjunkjunkjunkjunk"), Value: []byte{0xff, 0xff}},
		txRecord(t, tx2, raw2),
	}

	txs, failed := Transactions(recs, slogt.New(t))
	require.Len(t, txs, 2)
	assert.Equal(t, tx1, txs[0])
	assert.Equal(t, tx2, txs[1])

	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Index)
	assert.Contains(t, failed[0].Error(), "record 2")
	assert.Contains(t, failed[0].Error(), "parsing transaction")
}

func TestTransactionsStrict(t *testing.T) {
	tx1, raw1 := sampleTransaction(t, 1)
	good := []Record{txRecord(t, tx1, raw1)}

	txs, err := TransactionsStrict(good)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx1, txs[0])

	bad := append(good, Record{
		Key:   []byte("txjunkjunkjunkjunkjunkjunkjunkjunk"),
		Value: []byte{0x00},
	})
	_, err = TransactionsStrict(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing transaction record 1")
}

func TestTransactionsIgnoresNonTransactionRecords(t *testing.T) {
	recs := []Record{
		{Key: []byte("version"), Value: []byte{0xde, 0xad}},
		{Key: []byte("minversion"), Value: []byte{0xbe, 0xef}},
	}
	txs, failed := Transactions(recs, nil)
	assert.Empty(t, txs)
	assert.Empty(t, failed)
}
