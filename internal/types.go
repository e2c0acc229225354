package internal

import "strconv"

type CellKind int

const (
	CellBlank CellKind = iota
	CellText
	CellNumber
)

// Cell is the single representation for raw spreadsheet values. The
// cleaner in internal/extract is the only place cells are coerced to
// strings.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func BlankCell() Cell           { return Cell{Kind: CellBlank} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// Raw returns the cell's string form without any trimming or blank
// handling.
func (c Cell) Raw() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Row maps a zero-based column index to the raw cell value. Missing
// columns read as blank cells.
type Row map[int]Cell

func (r Row) Cell(col int) Cell {
	if c, ok := r[col]; ok {
		return c
	}
	return Cell{Kind: CellBlank}
}

type PackingInfo struct {
	Type     string  `json:"type"`
	Material *string `json:"material"`
	Spec     *string `json:"spec"`
	Company  *string `json:"company"`
}

type ExperimentInfo struct {
	Code     *string `json:"code"`
	Item     string  `json:"item"`
	Period   *string `json:"period"`
	Check    *string `json:"check"`
	Standard *string `json:"standard"`
	Result   *string `json:"result"`
}

type SpecialNote struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Document is the normalized record produced for one sheet. Nested slice
// order follows row-encounter order in the source sheet.
type Document struct {
	DocumentID      string           `json:"document_id"`
	Summary         string           `json:"summary"`
	FileName        string           `json:"file_name"`
	TestNo          *string          `json:"test_no"`
	ProductName     *string          `json:"product_name"`
	Customer        *string          `json:"customer"`
	Developer       *string          `json:"developer"`
	Requester       *string          `json:"requester"`
	TestCount       *string          `json:"test_count"`
	TestQuantity    *string          `json:"test_quantity"`
	TestDate        *string          `json:"test_date"`
	ExpectedDate    *string          `json:"expected_date"`
	Writer          *string          `json:"writer"`
	Reviewer        *string          `json:"reviewer"`
	Approver        *string          `json:"approver"`
	PackingInfo     []PackingInfo    `json:"packing_info"`
	LabID           *string          `json:"lab_id"`
	LabInfo         *string          `json:"lab_info"`
	OptimumCapacity *string          `json:"optimum_capacity"`
	ExperimentInfo  []ExperimentInfo `json:"experiment_info"`
	SpecialNotes    []SpecialNote    `json:"special_notes"`
	DownloadURL     string           `json:"download_url"`
}

const (
	FileReceived  = "received"
	FileExtracted = "extracted"
	FileIndexed   = "indexed"
	FileFailed    = "failed"
)

// FileRow tracks one certificate workbook through the pipeline.
type FileRow struct {
	ID         int
	Source     string
	FileName   string
	Hash       string
	RawRef     string
	Status     string
	ReceivedAt string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
