package connectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ctdoc/internal"
	"ctdoc/internal/storage"
)

type fakeConnector struct {
	messages []internal.FetchedMailMessage
}

func (f *fakeConnector) FetchInbox(_ context.Context, _ string, _ int) ([]internal.FetchedMailMessage, error) {
	return f.messages, nil
}

func mimeMessage(attachments map[string][]byte) []byte {
	var b strings.Builder
	b.WriteString("From: lab@example.com\r\n")
	b.WriteString("To: intake@example.com\r\n")
	b.WriteString("Subject: CT report\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n\r\n")
	b.WriteString("--BOUNDARY\r\nContent-Type: text/plain\r\n\r\nreport attached\r\n")
	for name, content := range attachments {
		b.WriteString("--BOUNDARY\r\n")
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", name))
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(base64.StdEncoding.EncodeToString(content))
		b.WriteString("\r\n")
	}
	b.WriteString("--BOUNDARY--\r\n")
	return []byte(b.String())
}

func TestFetchAndStoreKeepsOnlyWorkbooks(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw := mimeMessage(map[string][]byte{
		"cert.xlsx":  []byte("workbook-bytes"),
		"report.pdf": []byte("pdf-bytes"),
	})
	conn := &fakeConnector{messages: []internal.FetchedMailMessage{
		{Provider: "imap", MessageID: "<m1@example.com>", Subject: "CT report", Raw: raw},
	}}

	excelDir := filepath.Join(tmp, "excel")
	svc := NewIntakeService(db, excelDir, conn)

	result, err := svc.FetchAndStore(context.Background(), "INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.Fetched != 1 || result.Stored != 1 {
		t.Fatalf("fetched=%d stored=%d", result.Fetched, result.Stored)
	}

	entries, err := os.ReadDir(excelDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".xlsx") {
		t.Fatalf("entries %v", entries)
	}

	files, err := db.ListFilesByStatus(internal.FileReceived, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("files len=%d", len(files))
	}
	if files[0].FileName != "cert.xlsx" || files[0].Source != "imap" {
		t.Fatalf("file row %+v", files[0])
	}
	blob, err := os.ReadFile(files[0].RawRef)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "workbook-bytes" {
		t.Fatalf("stored content %q", blob)
	}
}

func TestFetchAndStoreSkipsBrokenMessage(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	conn := &fakeConnector{messages: []internal.FetchedMailMessage{
		{Provider: "imap", MessageID: "<bad@example.com>", Raw: []byte("")},
		{Provider: "imap", MessageID: "<ok@example.com>", Raw: mimeMessage(map[string][]byte{"a.xlsx": []byte("x")})},
	}}

	svc := NewIntakeService(db, filepath.Join(tmp, "excel"), conn)
	result, err := svc.FetchAndStore(context.Background(), "INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.Fetched != 2 || result.Stored != 1 {
		t.Fatalf("fetched=%d stored=%d", result.Fetched, result.Stored)
	}
}
