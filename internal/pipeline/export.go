package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ctdoc/internal"
	"ctdoc/internal/util"
)

// ExportDocumentXLSX writes one normalized document back to a workbook
// for the download flow: scalar fields first, then each entry list.
func ExportDocumentXLSX(doc internal.Document, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	r := 1
	set := func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, r)
		_ = f.SetCellValue(sheet, cell, value)
	}
	scalar := func(name string, value *string) {
		set(1, name)
		set(2, util.Deref(value))
		r++
	}

	set(1, "document_id")
	set(2, doc.DocumentID)
	r++
	set(1, "file_name")
	set(2, doc.FileName)
	r++
	scalar("test_no", doc.TestNo)
	scalar("product_name", doc.ProductName)
	scalar("customer", doc.Customer)
	scalar("developer", doc.Developer)
	scalar("requester", doc.Requester)
	scalar("test_count", doc.TestCount)
	scalar("test_quantity", doc.TestQuantity)
	scalar("test_date", doc.TestDate)
	scalar("expected_date", doc.ExpectedDate)
	scalar("writer", doc.Writer)
	scalar("reviewer", doc.Reviewer)
	scalar("approver", doc.Approver)
	scalar("lab_id", doc.LabID)
	scalar("lab_info", doc.LabInfo)
	scalar("optimum_capacity", doc.OptimumCapacity)
	r++

	set(1, "packing_info")
	r++
	set(1, "type")
	set(2, "material")
	set(3, "spec")
	set(4, "company")
	r++
	for _, pack := range doc.PackingInfo {
		set(1, pack.Type)
		set(2, util.Deref(pack.Material))
		set(3, util.Deref(pack.Spec))
		set(4, util.Deref(pack.Company))
		r++
	}
	r++

	set(1, "experiment_info")
	r++
	set(1, "code")
	set(2, "item")
	set(3, "period")
	set(4, "check")
	set(5, "standard")
	set(6, "result")
	r++
	for _, exp := range doc.ExperimentInfo {
		set(1, util.Deref(exp.Code))
		set(2, exp.Item)
		set(3, util.Deref(exp.Period))
		set(4, util.Deref(exp.Check))
		set(5, util.Deref(exp.Standard))
		set(6, util.Deref(exp.Result))
		r++
	}
	r++

	set(1, "special_notes")
	r++
	for _, note := range doc.SpecialNotes {
		set(1, note.Key)
		set(2, util.Deref(note.Value))
		r++
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportNotesXLSX writes the aggregated special notes of several
// documents, one row per note.
func ExportNotesXLSX(docs []internal.Document, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"document_id", "product_name", "key", "value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 2
	for _, doc := range docs {
		for _, note := range doc.SpecialNotes {
			values := []any{doc.DocumentID, util.Deref(doc.ProductName), note.Key, util.Deref(note.Value)}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, r)
				_ = f.SetCellValue(sheet, cell, v)
			}
			r++
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
