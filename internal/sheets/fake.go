package sheets

import (
	"context"
	"sync"
)

// Fake is an in-memory Backend for tests and local development. It behaves
// like the worksheet does: 1-based rows, string cells, trailing empty cells
// truncated on read.
type Fake struct {
	mu   sync.Mutex
	grid [][]string

	// FailNext, when set, makes the next call return the given error once.
	FailNext error

	// Calls counts backend operations by name, for asserting cache behavior.
	Calls map[string]int
}

// NewFake builds an empty fake worksheet.
func NewFake() *Fake {
	return &Fake{Calls: make(map[string]int)}
}

// Seed replaces the whole grid.
func (f *Fake) Seed(grid [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grid = grid
}

// Grid returns a deep copy of the current grid.
func (f *Fake) Grid() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyGrid(f.grid)
}

func (f *Fake) take(op string) error {
	f.Calls[op]++
	if err := f.FailNext; err != nil {
		f.FailNext = nil
		return err
	}
	return nil
}

func (f *Fake) Values(ctx context.Context) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take("values"); err != nil {
		return nil, err
	}
	return copyGrid(f.grid), nil
}

func (f *Fake) Header(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take("header"); err != nil {
		return nil, err
	}
	if len(f.grid) == 0 {
		return nil, nil
	}
	return trimTrailing(append([]string(nil), f.grid[0]...)), nil
}

func (f *Fake) Row(ctx context.Context, n int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take("row"); err != nil {
		return nil, err
	}
	if n < 1 || n > len(f.grid) {
		return nil, nil
	}
	return trimTrailing(append([]string(nil), f.grid[n-1]...)), nil
}

func (f *Fake) Append(ctx context.Context, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take("append"); err != nil {
		return err
	}
	f.grid = append(f.grid, append([]string(nil), row...))
	return nil
}

// UpdateRange supports the single-row A1 ranges the store writes
// (A{row}:{col}{row}).
func (f *Fake) UpdateRange(ctx context.Context, a1 string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take("update"); err != nil {
		return err
	}
	n := rowFromA1(a1)
	if n < 1 {
		return nil
	}
	for len(f.grid) < n {
		f.grid = append(f.grid, nil)
	}
	f.grid[n-1] = append([]string(nil), row...)
	return nil
}

// rowFromA1 extracts the row number from a range like "A5:P5".
func rowFromA1(a1 string) int {
	n := 0
	for _, r := range a1 {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		} else if n > 0 {
			break
		}
	}
	return n
}

func copyGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// trimTrailing mimics the API, which drops trailing empty cells from a read.
func trimTrailing(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}
