// Package csvio reads transaction logs and writes balance reports.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/shopspring/decimal"
)

// ParseError reports a malformed input record.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errMissingHeader = errors.New("missing header row")

type columns struct {
	kind, client, tx, amount int
}

// ReadFile reads every transaction in the CSV file at path.
func ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTransactions(f)
}

// ReadTransactions parses a header row (type, client, tx, amount) followed by
// one record per line. Fields are trimmed and the type is case-insensitive.
// The first malformed record aborts the read.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Err: errMissingHeader}
	}
	if err != nil {
		return nil, err
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	var txs []model.Transaction
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return txs, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		tx, err := parseRecord(rec, cols)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		txs = append(txs, tx)
	}
}

func mapHeader(header []string) (columns, error) {
	cols := columns{kind: -1, client: -1, tx: -1, amount: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "type":
			cols.kind = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		}
	}
	switch {
	case cols.kind < 0:
		return cols, errors.New("header has no type column")
	case cols.client < 0:
		return cols, errors.New("header has no client column")
	case cols.tx < 0:
		return cols, errors.New("header has no tx column")
	}
	return cols, nil
}

func parseRecord(rec []string, cols columns) (model.Transaction, error) {
	var tx model.Transaction

	kind, err := model.ParseKind(field(rec, cols.kind))
	if err != nil {
		return tx, err
	}
	client, err := strconv.ParseUint(field(rec, cols.client), 10, 16)
	if err != nil {
		return tx, fmt.Errorf("client: %w", err)
	}
	id, err := strconv.ParseUint(field(rec, cols.tx), 10, 32)
	if err != nil {
		return tx, fmt.Errorf("tx: %w", err)
	}
	tx = model.Transaction{Kind: kind, ClientID: uint16(client), ID: uint32(id)}

	if raw := field(rec, cols.amount); raw != "" {
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return tx, fmt.Errorf("amount: %w", err)
		}
		tx.Amount = decimal.NewNullDecimal(amt)
	}
	return tx, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
