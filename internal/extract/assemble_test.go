package extract

import (
	"regexp"
	"testing"
)

var reDocumentID = regexp.MustCompile(`^DOC[0-9A-F]{32}$`)

func TestNewDocumentID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewDocumentID()
		if !reDocumentID.MatchString(id) {
			t.Fatalf("malformed id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAssemble(t *testing.T) {
	res := Scan(certificateRows(), DefaultAliases())
	doc := Assemble(res, "sample.xlsx", "DOC0123456789ABCDEF0123456789ABCDEF")

	if doc.DocumentID != "DOC0123456789ABCDEF0123456789ABCDEF" {
		t.Fatalf("document id %q", doc.DocumentID)
	}
	if doc.FileName != "sample.xlsx" {
		t.Fatalf("file name %q", doc.FileName)
	}
	if doc.Summary != SummaryPending {
		t.Fatalf("summary %q", doc.Summary)
	}
	if doc.DownloadURL != DownloadURLPending {
		t.Fatalf("download url %q", doc.DownloadURL)
	}
	if doc.ProductName == nil || *doc.ProductName != "로얄 프레쉬 수딩 토너" {
		t.Fatalf("product name %v", doc.ProductName)
	}
	if len(doc.PackingInfo) != 2 || len(doc.ExperimentInfo) != 3 || len(doc.SpecialNotes) != 2 {
		t.Fatal("scan slices not carried over")
	}
}

func TestAssembleSameScanSameDocument(t *testing.T) {
	res := Scan(certificateRows(), DefaultAliases())
	a := Assemble(res, "sample.xlsx", "DOCAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	b := Assemble(res, "sample.xlsx", "DOCAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	if a.DocumentID != b.DocumentID || *a.ProductName != *b.ProductName {
		t.Fatal("assembly is not deterministic for a fixed id")
	}
}
