package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ctdoc/internal"
)

// LoadRows reads the first sheet of a workbook into the positional row
// model. Raw cell values are requested so spreadsheet serial dates reach
// the date normalizer un-rendered.
func LoadRows(blob []byte) ([]internal.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows := make([]internal.Row, 0, len(cells))
	for _, line := range cells {
		row := internal.Row{}
		for col, raw := range line {
			row[col] = toCell(raw)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toCell(raw string) internal.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return internal.BlankCell()
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return internal.NumberCell(n)
	}
	return internal.TextCell(raw)
}

// ExtractWorkbook runs the whole extraction for one workbook blob:
// load, scan, assemble. Exactly one document per workbook; a broken
// workbook yields an error and no document, never a half-filled one.
func ExtractWorkbook(blob []byte, fileName string, aliases Aliases) (internal.Document, error) {
	rows, err := LoadRows(blob)
	if err != nil {
		return internal.Document{}, err
	}
	res := Scan(rows, aliases)
	return Assemble(res, fileName, NewDocumentID()), nil
}
