package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/walletmigrate/zwif/pkg/logging"
	"github.com/walletmigrate/zwif/pkg/parser"
	"github.com/walletmigrate/zwif/pkg/proto"
	"github.com/walletmigrate/zwif/pkg/wallet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zwif: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		logParams logging.Parameters
		trace     bool
		snapshot  string
		records   bool
	)
	fs := pflag.NewFlagSet("zwif", pflag.ContinueOnError)
	logParams.Initialize(fs)
	fs.BoolVar(&trace, "trace", false, "Log every parser read at debug level.")
	fs.BoolVar(&records, "records", false, "Treat the input as a wallet record dump instead of a single transaction.")
	fs.StringVar(&snapshot, "snapshot", "", "Write decoded transactions to a CBOR snapshot at the given path.")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if err := logParams.Parse(); err != nil {
		return err
	}
	if trace && logParams.Level > slog.LevelDebug {
		logParams.Level = slog.LevelDebug
	}
	log := logging.SetupSimpleLogger(logParams)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: zwif [flags] <file>")
	}
	data, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	var traceLog *slog.Logger
	if trace {
		traceLog = log.With(slog.String(logging.NamespaceKey, "parser"))
	}

	var txs []proto.Transaction
	if records {
		recs, err := wallet.ReadRecords(data)
		if err != nil {
			return err
		}
		decoded, failed := wallet.Transactions(recs, log)
		for _, f := range failed {
			log.Warn("record skipped", slog.Int("record", f.Index), slog.String("error", f.Err.Error()))
		}
		txs = decoded
	} else {
		var tx proto.Transaction
		if err := parser.DecodeBuffer(&tx, data, traceLog); err != nil {
			return fmt.Errorf("parsing transaction: %w", err)
		}
		txs = []proto.Transaction{tx}
	}

	for i := range txs {
		printTransaction(&txs[i])
	}

	if snapshot != "" {
		s, err := wallet.BuildSnapshot(txs)
		if err != nil {
			return err
		}
		if err := wallet.WriteSnapshot(snapshot, s); err != nil {
			return err
		}
		log.Info("snapshot written", slog.String("path", snapshot), slog.Int("transactions", len(txs)))
	}
	return nil
}

// readInput loads a file holding either raw bytes or their hex encoding.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(string(data))
	if decoded, err := hex.DecodeString(s); err == nil {
		return decoded, nil
	}
	return data, nil
}

func printTransaction(tx *proto.Transaction) {
	id, err := tx.TxID()
	if err == nil {
		fmt.Printf("txid: %s\n", id)
	}
	fmt.Printf("version: %d (overwintered: %t)\n", tx.Version, tx.Overwintered)
	fmt.Printf("inputs: %d, outputs: %d, joinsplits: %d, spends: %d, shielded outputs: %d\n",
		len(tx.Inputs), len(tx.Outputs), len(tx.JoinSplits), len(tx.Spends), len(tx.ShieldedOutputs))
	for i, out := range tx.Outputs {
		line := fmt.Sprintf("  vout[%d]: %s ZEC", i, out.Value)
		if addr, err := proto.ExtractAddress(out.ScriptPubKey, proto.Mainnet); err == nil {
			line += " -> " + addr.String()
		}
		fmt.Println(line)
	}
}
