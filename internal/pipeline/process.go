package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ctdoc/internal"
	"ctdoc/internal/config"
	"ctdoc/internal/extract"
	"ctdoc/internal/searchidx"
	"ctdoc/internal/storage"
)

// ProcessingService walks certificate workbooks through extraction and
// indexing. Each file is independent: one broken workbook is logged and
// skipped, the batch continues.
type ProcessingService struct {
	db      *storage.DB
	cfg     config.Config
	aliases extract.Aliases
}

func NewProcessingService(db *storage.DB, cfg config.Config) (*ProcessingService, error) {
	aliases, err := extract.LoadAliases(cfg.AliasConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load alias config: %w", err)
	}
	return &ProcessingService{db: db, cfg: cfg, aliases: aliases}, nil
}

// RegisterFile hashes one workbook and records it for processing.
// Re-delivered files dedupe on content hash.
func (s *ProcessingService) RegisterFile(path, source string) (internal.FileRow, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.FileRow{}, err
	}
	sum := sha256.Sum256(blob)
	return s.db.UpsertFile(source, filepath.Base(path), hex.EncodeToString(sum[:]), path, internal.FileReceived)
}

// RegisterDirectory registers every xlsx in a directory.
func (s *ProcessingService) RegisterDirectory(dir, source string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xlsx") {
			continue
		}
		if _, err := s.RegisterFile(filepath.Join(dir, entry.Name()), source); err != nil {
			return registered, err
		}
		registered++
	}
	return registered, nil
}

type ProcessResult struct {
	FileID     int
	DocumentID string
}

// ProcessFile extracts one registered workbook into its normalized
// document. Extraction itself cannot fail; only reading or decoding the
// workbook can, and that marks the file failed without a document.
func (s *ProcessingService) ProcessFile(file internal.FileRow) (ProcessResult, error) {
	blob, err := os.ReadFile(file.RawRef)
	if err != nil {
		_ = s.db.UpdateFileStatus(file.ID, internal.FileFailed)
		return ProcessResult{}, err
	}

	doc, err := extract.ExtractWorkbook(blob, file.FileName, s.aliases)
	if err != nil {
		_ = s.db.UpdateFileStatus(file.ID, internal.FileFailed)
		return ProcessResult{}, err
	}

	if err := s.db.UpsertDocument(doc, file.ID, internal.FileExtracted); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateFileStatus(file.ID, internal.FileExtracted); err != nil {
		return ProcessResult{}, err
	}

	return ProcessResult{FileID: file.ID, DocumentID: doc.DocumentID}, nil
}

// ProcessPending extracts up to limit received files. A failing file is
// skipped and counted, not fatal for the batch.
func (s *ProcessingService) ProcessPending(limit int) (processed, failed int, err error) {
	pending, err := s.db.ListFilesByStatus(internal.FileReceived, limit)
	if err != nil {
		return 0, 0, err
	}

	for _, file := range pending {
		if _, err := s.ProcessFile(file); err != nil {
			fmt.Printf("extract %s failed: %v\n", file.FileName, err)
			failed++
			continue
		}
		processed++
	}
	return processed, failed, nil
}

// IndexExtracted pushes extracted documents into the search index and
// advances their status.
func (s *ProcessingService) IndexExtracted(ctx context.Context, uploader *searchidx.Uploader, limit int) (indexed, failed int, err error) {
	rows, err := s.db.ListDocumentsByStatus(internal.FileExtracted, limit)
	if err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		if err := uploader.IndexDocument(ctx, row.Doc); err != nil {
			fmt.Printf("index %s failed: %v\n", row.DocumentID, err)
			failed++
			continue
		}
		if err := s.db.UpdateDocumentStatus(row.DocumentID, internal.FileIndexed); err != nil {
			return indexed, failed, err
		}
		if err := s.db.UpdateFileStatus(row.FileID, internal.FileIndexed); err != nil {
			return indexed, failed, err
		}
		indexed++
	}
	return indexed, failed, nil
}
