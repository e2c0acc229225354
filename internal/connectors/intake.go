package connectors

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"

	"ctdoc/internal"
	"ctdoc/internal/storage"
)

// IntakeService pulls messages from a mailbox and lands their xlsx
// certificate attachments in the intake directory. Other attachment
// types are ignored: the extraction is positional and only workbooks
// carry the column layout it reads.
type IntakeService struct {
	db        *storage.DB
	connector MailConnector
	excelDir  string
}

type IntakeResult struct {
	Fetched int
	Stored  int
}

func NewIntakeService(db *storage.DB, excelDir string, connector MailConnector) *IntakeService {
	return &IntakeService{db: db, connector: connector, excelDir: excelDir}
}

func (s *IntakeService) FetchAndStore(ctx context.Context, mailbox string, max int) (IntakeResult, error) {
	messages, err := s.connector.FetchInbox(ctx, mailbox, max)
	if err != nil {
		return IntakeResult{}, err
	}

	result := IntakeResult{Fetched: len(messages)}
	for _, msg := range messages {
		stored, err := s.storeAttachments(msg)
		if err != nil {
			fmt.Printf("intake %s from %s failed: %v\n", msg.MessageID, msg.Provider, err)
			continue
		}
		result.Stored += stored
	}
	return result, nil
}

func (s *IntakeService) storeAttachments(msg internal.FetchedMailMessage) (int, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(msg.Raw))
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.excelDir, 0o755); err != nil {
		return 0, err
	}

	stored := 0
	for _, att := range env.Attachments {
		name := strings.TrimSpace(att.FileName)
		if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			continue
		}

		sum := sha256.Sum256(att.Content)
		hash := hex.EncodeToString(sum[:])
		rawPath := filepath.Join(s.excelDir, hash+".xlsx")
		if _, err := os.Stat(rawPath); os.IsNotExist(err) {
			if err := os.WriteFile(rawPath, att.Content, 0o644); err != nil {
				return stored, err
			}
		}

		if _, err := s.db.UpsertFile(msg.Provider, name, hash, rawPath, internal.FileReceived); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}
