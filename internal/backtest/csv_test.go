package backtest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestEncodeLedgerCSV(t *testing.T) {
	res, err := New(zerolog.Nop()).Run("TEST", golden(), goldenParams())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeLedgerCSV(&buf, res.Ledger); err != nil {
		t.Fatalf("EncodeLedgerCSV returned error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(rows) != len(res.Ledger)+1 {
		t.Fatalf("expected %d rows incl. header, got %d", len(res.Ledger)+1, len(rows))
	}
	if rows[0][5] != "z_score" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "2023-01-02" || rows[1][5] != "" || rows[1][6] != "HOLD" {
		t.Fatalf("unexpected warm-up row: %v", rows[1])
	}
	if rows[3][5] != "-1.069045" || rows[3][6] != "BUY" {
		t.Fatalf("unexpected row 2: %v", rows[3])
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	res, err := New(zerolog.Nop()).Run("TEST", golden(), goldenParams())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := WriteLedgerCSV(path, res.Ledger); err != nil {
		t.Fatalf("WriteLedgerCSV returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty file, err=%v", err)
	}
}
