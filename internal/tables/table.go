package tables

import "fmt"

// Row is one output record keyed by column name.
type Row = map[string]any

// Table is what the core hands to a Writer: a named column set, the
// partition-key columns (possibly empty), and the finished rows. By the
// time a Table reaches a writer it already satisfies the schema invariants;
// the writer owns only physical layout.
type Table struct {
	Name        string
	Columns     []string
	PartitionBy []string
	Rows        []Row
}

func New(name string, columns, partitionBy []string) *Table {
	return &Table{
		Name:        name,
		Columns:     columns,
		PartitionBy: partitionBy,
	}
}

func (t *Table) Append(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

type WriteErrorCode string

const (
	WriteErrorMissingPartitionKey WriteErrorCode = "missing_partition_key"
	WriteErrorStoreFailure        WriteErrorCode = "store_failure"
	WriteErrorEncodeFailure       WriteErrorCode = "encode_failure"
)

// WriteError is fatal for the table's stage; the caller decides whether to
// rerun. No retry happens inside the writer.
type WriteError struct {
	Code   WriteErrorCode
	Table  string
	Column string
	Cause  error
}

func (e *WriteError) Error() string {
	if e == nil {
		return "table write error"
	}
	msg := fmt.Sprintf("write table %q: %s", e.Table, e.Code)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *WriteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
