package extract

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"ctdoc/internal"
)

// Placeholder sentinels for fields a downstream stage fills in later.
// They are deliberately not empty strings so consumers can tell "not yet
// computed" apart from "computed empty".
const (
	SummaryPending     = "__SUMMARY_PENDING__"
	DownloadURLPending = "__UPLOAD_PENDING__"
)

// NewDocumentID returns "DOC" followed by 32 uppercase hex characters
// from a random v4 UUID. The id is the document's storage key, assigned
// once at assembly and never regenerated.
func NewDocumentID() string {
	id := uuid.New()
	return "DOC" + strings.ToUpper(hex.EncodeToString(id[:]))
}

// Assemble builds the normalized document from one scan. The id is
// injected so callers (and tests) control its generation.
func Assemble(res ScanResult, fileName, docID string) internal.Document {
	return internal.Document{
		DocumentID:      docID,
		Summary:         SummaryPending,
		FileName:        fileName,
		TestNo:          res.TestNo,
		ProductName:     res.ProductName,
		Customer:        res.Customer,
		Developer:       res.Developer,
		Requester:       res.Requester,
		TestCount:       res.TestCount,
		TestQuantity:    res.TestQuantity,
		TestDate:        res.TestDate,
		ExpectedDate:    res.ExpectedDate,
		Writer:          res.Writer,
		Reviewer:        res.Reviewer,
		Approver:        res.Approver,
		PackingInfo:     res.PackingInfo,
		LabID:           res.LabID,
		LabInfo:         res.LabInfo,
		OptimumCapacity: res.OptimumCapacity,
		ExperimentInfo:  res.ExperimentInfo,
		SpecialNotes:    res.SpecialNotes,
		DownloadURL:     DownloadURLPending,
	}
}
