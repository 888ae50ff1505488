// Package csvio reads transaction logs and writes account snapshots in the
// engine's CSV format.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvloznov/payments-engine/internal/domain"
)

// ErrMalformedRow marks a row that cannot be turned into a transaction.
// The reader stays usable after returning it.
var ErrMalformedRow = errors.New("csvio: malformed row")

const headerField = "type"

// Reader streams domain.Transaction values out of a CSV transaction log with
// columns type, client, tx, amount.
type Reader struct {
	r    *csv.Reader
	line int
}

// NewReader wraps r. Leading whitespace, missing trailing columns and an
// optional header row are tolerated.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{r: cr}
}

// Line returns the input line of the last row read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next transaction. It returns io.EOF at the end of input,
// an error wrapping ErrMalformedRow for a row that should be skipped, and any
// other error for an unrecoverable read failure.
func (r *Reader) Next() (domain.Transaction, error) {
	for {
		fields, err := r.r.Read()
		if err != nil {
			if err == io.EOF {
				return domain.Transaction{}, io.EOF
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.line = perr.StartLine
				return domain.Transaction{}, fmt.Errorf("line %d: %v: %w", perr.StartLine, perr.Err, ErrMalformedRow)
			}
			return domain.Transaction{}, fmt.Errorf("Next: read: %w", err)
		}
		r.line, _ = r.r.FieldPos(0)

		if isHeader(fields) {
			continue
		}
		tx, err := parseRecord(fields)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return tx, nil
	}
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), headerField)
}

func parseRecord(fields []string) (domain.Transaction, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return domain.Transaction{}, fmt.Errorf("%d fields: %w", len(fields), ErrMalformedRow)
	}

	kind, err := domain.ParseKind(fields[0])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%v: %w", err, ErrMalformedRow)
	}
	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("client %q: %w", fields[1], ErrMalformedRow)
	}
	txID, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("tx %q: %w", fields[2], ErrMalformedRow)
	}

	raw := ""
	if len(fields) == 4 {
		raw = strings.TrimSpace(fields[3])
	}

	if !kind.CarriesAmount() {
		// Amount columns on dispute rows are ignored.
		switch kind {
		case domain.KindDispute:
			return domain.NewDispute(uint16(client), uint32(txID)), nil
		case domain.KindResolve:
			return domain.NewResolve(uint16(client), uint32(txID)), nil
		default:
			return domain.NewChargeback(uint16(client), uint32(txID)), nil
		}
	}

	if raw == "" {
		return domain.Transaction{}, fmt.Errorf("%s tx %d: missing amount: %w", kind, txID, ErrMalformedRow)
	}
	amount, err := domain.ParseAmount(raw)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%v: %w", err, ErrMalformedRow)
	}
	if kind == domain.KindDeposit {
		return domain.NewDeposit(uint16(client), uint32(txID), amount), nil
	}
	return domain.NewWithdrawal(uint16(client), uint32(txID), amount), nil
}
