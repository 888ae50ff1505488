package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvloznov/payments-engine/internal/domain"
	"github.com/dvloznov/payments-engine/internal/ledger"
	"github.com/shopspring/decimal"
)

// SnapshotHeader is the header row of the account snapshot output.
var SnapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Writer writes account snapshots as CSV.
type Writer struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Write writes one snapshot row, preceded by the header on first use.
func (w *Writer) Write(s ledger.AccountSnapshot) error {
	if err := w.header(); err != nil {
		return err
	}
	if err := w.w.Write(formatSnapshot(s)); err != nil {
		return fmt.Errorf("Write: client %d: %w", s.ClientID, err)
	}
	return nil
}

// WriteAll writes the header and every snapshot, then flushes. The header is
// written even when snaps is empty.
func (w *Writer) WriteAll(snaps []ledger.AccountSnapshot) error {
	if err := w.header(); err != nil {
		return err
	}
	for _, s := range snaps {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush flushes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("Flush: %w", err)
	}
	return nil
}

func (w *Writer) header() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	if err := w.w.Write(SnapshotHeader); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	return nil
}

func formatSnapshot(s ledger.AccountSnapshot) []string {
	return []string{
		strconv.FormatUint(uint64(s.ClientID), 10),
		s.Available.StringFixed(domain.AmountScale),
		s.Held.StringFixed(domain.AmountScale),
		s.Total.StringFixed(domain.AmountScale),
		strconv.FormatBool(s.Locked),
	}
}

// ReadSnapshots parses snapshot CSV as produced by Writer. The header row is
// optional.
func ReadSnapshots(r io.Reader) ([]ledger.AccountSnapshot, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(SnapshotHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadSnapshots: %w", err)
	}

	out := make([]ledger.AccountSnapshot, 0, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), SnapshotHeader[0]) {
			continue
		}
		s, err := parseSnapshot(row)
		if err != nil {
			return nil, fmt.Errorf("ReadSnapshots: row %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseSnapshot(row []string) (ledger.AccountSnapshot, error) {
	client, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 16)
	if err != nil {
		return ledger.AccountSnapshot{}, fmt.Errorf("client %q: %w", row[0], err)
	}
	var amounts [3]decimal.Decimal
	for i := range amounts {
		amounts[i], err = decimal.NewFromString(strings.TrimSpace(row[i+1]))
		if err != nil {
			return ledger.AccountSnapshot{}, fmt.Errorf("%s %q: %w", SnapshotHeader[i+1], row[i+1], err)
		}
	}
	locked, err := strconv.ParseBool(strings.TrimSpace(row[4]))
	if err != nil {
		return ledger.AccountSnapshot{}, fmt.Errorf("locked %q: %w", row[4], err)
	}
	return ledger.AccountSnapshot{
		ClientID:  uint16(client),
		Available: amounts[0],
		Held:      amounts[1],
		Total:     amounts[2],
		Locked:    locked,
	}, nil
}
