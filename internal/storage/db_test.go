package storage

import (
	"path/filepath"
	"testing"

	"ctdoc/internal"
	"ctdoc/internal/util"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertFileDedupesOnHash(t *testing.T) {
	db := openTestDB(t)

	first, err := db.UpsertFile("local", "cert.xlsx", "hash-1", "/data/cert.xlsx", internal.FileReceived)
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.UpsertFile("imap", "cert-copy.xlsx", "hash-1", "/data/copy.xlsx", internal.FileReceived)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("same hash got ids %d and %d", first.ID, second.ID)
	}

	byHash, err := db.GetFileByHash("hash-1")
	if err != nil {
		t.Fatal(err)
	}
	if byHash == nil || byHash.ID != first.ID {
		t.Fatal("lookup by hash failed")
	}
}

func TestFileStatusTransitions(t *testing.T) {
	db := openTestDB(t)

	file, err := db.UpsertFile("local", "cert.xlsx", "hash-2", "/data/cert.xlsx", internal.FileReceived)
	if err != nil {
		t.Fatal(err)
	}

	pending, err := db.ListFilesByStatus(internal.FileReceived, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending len=%d", len(pending))
	}

	if err := db.UpdateFileStatus(file.ID, internal.FileExtracted); err != nil {
		t.Fatal(err)
	}
	pending, err = db.ListFilesByStatus(internal.FileReceived, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatal("file still pending after status update")
	}

	got, err := db.GetFileByID(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Status != internal.FileExtracted {
		t.Fatalf("status %v", got)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	db := openTestDB(t)

	file, err := db.UpsertFile("local", "cert.xlsx", "hash-3", "/data/cert.xlsx", internal.FileReceived)
	if err != nil {
		t.Fatal(err)
	}

	doc := internal.Document{
		DocumentID:  "DOC0123456789ABCDEF0123456789ABCDEF",
		FileName:    "cert.xlsx",
		ProductName: util.StringPtr("로얄 프레쉬 수딩 토너"),
		PackingInfo: []internal.PackingInfo{
			{Type: "용기", Material: util.StringPtr("PET"), Company: util.StringPtr("우성")},
		},
		SpecialNotes: []internal.SpecialNote{{Key: "기타", Value: util.StringPtr("특이사항 없음.")}},
	}
	if err := db.UpsertDocument(doc, file.ID, internal.FileExtracted); err != nil {
		t.Fatal(err)
	}

	row, err := db.GetDocument(doc.DocumentID)
	if err != nil {
		t.Fatal(err)
	}
	if row == nil {
		t.Fatal("document not found")
	}
	if *row.Doc.ProductName != "로얄 프레쉬 수딩 토너" {
		t.Fatalf("product name %v", row.Doc.ProductName)
	}
	if len(row.Doc.PackingInfo) != 1 || *row.Doc.PackingInfo[0].Material != "PET" {
		t.Fatalf("packing %+v", row.Doc.PackingInfo)
	}

	byFile, err := db.GetDocumentByFileID(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	if byFile == nil || byFile.DocumentID != doc.DocumentID {
		t.Fatal("lookup by file id failed")
	}

	if err := db.UpdateDocumentStatus(doc.DocumentID, internal.FileIndexed); err != nil {
		t.Fatal(err)
	}
	listed, err := db.ListDocumentsByStatus(internal.FileIndexed, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("indexed len=%d", len(listed))
	}

	if missing, err := db.GetDocument("DOCFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF"); err != nil || missing != nil {
		t.Fatalf("missing doc got %v err %v", missing, err)
	}
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	if v, err := db.GetMetadata("cursor"); err != nil || v != nil {
		t.Fatalf("unset key got %v err %v", v, err)
	}
	if err := db.SetMetadata("cursor", "2026-08-01"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("cursor", "2026-08-31"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMetadata("cursor")
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != "2026-08-31" {
		t.Fatalf("got %v", v)
	}
}
