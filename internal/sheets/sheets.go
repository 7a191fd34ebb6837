// Package sheets owns the connection to the Google Sheets backend. It exposes
// the worksheet as a small Backend interface so the record store and tests
// never touch the API client directly.
package sheets

import "context"

// Backend is the raw worksheet surface the record store builds on. All row
// and column indices are 1-based, matching A1 notation; cell values are
// always strings (empty string, not null, means "no value").
type Backend interface {
	// Values returns the whole grid, header row included. An empty sheet
	// yields an empty slice.
	Values(ctx context.Context) ([][]string, error)

	// Header returns row 1, or an empty slice when the sheet is empty.
	Header(ctx context.Context) ([]string, error)

	// Row returns the raw values of one physical row. Trailing empty cells
	// may be truncated by the backend; callers pad against the header.
	Row(ctx context.Context, n int) ([]string, error)

	// Append adds one row after the last non-empty row.
	Append(ctx context.Context, row []string) error

	// UpdateRange overwrites exactly the cells of the given A1 range with
	// one row of values.
	UpdateRange(ctx context.Context, a1 string, row []string) error
}
