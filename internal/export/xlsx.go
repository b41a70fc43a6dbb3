// Package export converts persisted dataset files to XLSX workbooks for
// consumers who want the tables in a spreadsheet.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/munistats/internal/table"
)

// ToXLSX writes a dataset file as a single-sheet XLSX workbook. All cells
// are written as text, matching the CSV representation exactly (codes keep
// their leading zeros).
func ToXLSX(csvPath, outPath, sheetName string) error {
	t, err := table.Read(csvPath)
	if err != nil {
		return err
	}
	if t == nil {
		return eris.Errorf("export: dataset file %s does not exist", csvPath)
	}
	if sheetName == "" {
		sheetName = "data"
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c)
	}
	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	if err := f.Save(outPath); err != nil {
		return eris.Wrapf(err, "export: save %s", outPath)
	}
	return nil
}
