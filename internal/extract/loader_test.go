package extract

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"ctdoc/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestLoadRows(t *testing.T) {
	blob := mkXLSX([][]any{
		{"제품명", nil, "로얄 프레쉬 수딩 토너"},
		{"수량", nil, 10},
	})

	rows, err := LoadRows(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len=%d", len(rows))
	}

	if rows[0].Cell(0).Kind != internal.CellText || rows[0].Cell(0).Text != "제품명" {
		t.Fatalf("cell(0,0) %+v", rows[0].Cell(0))
	}
	if rows[0].Cell(1).Kind != internal.CellBlank {
		t.Fatalf("cell(0,1) %+v", rows[0].Cell(1))
	}
	if rows[1].Cell(2).Kind != internal.CellNumber || rows[1].Cell(2).Number != 10 {
		t.Fatalf("cell(1,2) %+v", rows[1].Cell(2))
	}
	// out-of-range columns read as blank
	if rows[0].Cell(99).Kind != internal.CellBlank {
		t.Fatal("missing column must read blank")
	}
}

func TestLoadRowsBadBlob(t *testing.T) {
	if _, err := LoadRows([]byte("not a workbook")); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractWorkbook(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Test No : 내곡2205-10228"},
		{"제품명", nil, "로얄 프레쉬 수딩 토너"},
		{"시험일자", nil, "2022.05.13"},
		{"포장재정보"},
		{nil, nil, "용기", nil, "PET", nil, "내경 17.8Φ", nil, "우성"},
		{"처방정보"},
	})

	doc, err := ExtractWorkbook(blob, "cert.xlsx", DefaultAliases())
	if err != nil {
		t.Fatal(err)
	}
	if !reDocumentID.MatchString(doc.DocumentID) {
		t.Fatalf("document id %q", doc.DocumentID)
	}
	if doc.FileName != "cert.xlsx" {
		t.Fatalf("file name %q", doc.FileName)
	}
	if doc.TestNo == nil || *doc.TestNo != "내곡2205-10228" {
		t.Fatalf("test no %v", doc.TestNo)
	}
	if doc.TestDate == nil || *doc.TestDate != "2022-05-13" {
		t.Fatalf("test date %v", doc.TestDate)
	}
	if len(doc.PackingInfo) != 1 || doc.PackingInfo[0].Type != "용기" {
		t.Fatalf("packing %+v", doc.PackingInfo)
	}
}
