package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/richardliu001/ledger-replay/internal/model"
)

// Output formats.
const (
	FormatCSV   = "csv"
	FormatTable = "table"
)

// WriteAccounts writes the header and one row per account in the given order.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.AccountHeader); err != nil {
		return err
	}
	for _, a := range accounts {
		if err := cw.Write(a.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders the same report as an ASCII table.
func WriteTable(w io.Writer, accounts []model.Account) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(model.AccountHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, a := range accounts {
		table.Append(a.Fields())
	}
	table.Render()
	return nil
}

// Write dispatches on format.
func Write(w io.Writer, format string, accounts []model.Account) error {
	switch format {
	case "", FormatCSV:
		return WriteAccounts(w, accounts)
	case FormatTable:
		return WriteTable(w, accounts)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
