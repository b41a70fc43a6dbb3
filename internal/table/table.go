// Package table reads and writes the persisted datasets as whole-file CSV
// snapshots. A dataset file is read once in full at the start of a merge and
// written once in full at the end; the write goes through a temp file in the
// same directory and a rename, so a failed run never clobbers the prior
// file.
package table

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Table is an in-memory tabular snapshot: a header plus rows of string
// cells. All code-like columns stay text to preserve leading zeros and avoid
// cross-run type drift.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given column set.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// Append adds rows to the table.
func (t *Table) Append(rows ...[]string) {
	t.Rows = append(t.Rows, rows...)
}

// Read loads a dataset file in full. A missing file is not an error: it
// returns (nil, nil) so merge policies can treat it as an empty history.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "table: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate drifted column counts

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "table: read %s", path)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

// Write replaces the dataset file wholesale. The table is first written to a
// temp file alongside the target, then renamed over it.
func (t *Table) Write(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "table: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "table: create temp for %s", path)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrapf(err, "table: write header %s", path)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrapf(err, "table: write rows %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrapf(err, "table: flush %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "table: close temp for %s", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "table: replace %s", path)
	}
	return nil
}

// ColumnIndex returns a column-name → position map for tolerant row access
// when reading files written under an older column set.
func (t *Table) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}
	return idx
}

// Cell returns the named cell of a row under the given column index, or ""
// when the column or cell is absent.
func Cell(row []string, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
