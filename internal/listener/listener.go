package listener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ctdoc/internal/config"
	"ctdoc/internal/connectors"
	gmailconnector "ctdoc/internal/connectors/gmail"
	imapconnector "ctdoc/internal/connectors/imap"
	"ctdoc/internal/embedding"
	"ctdoc/internal/pipeline"
	"ctdoc/internal/searchidx"
	"ctdoc/internal/storage"
)

// Service polls a mailbox for certificate attachments, extracts them and
// optionally pushes the results into the search index.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.ListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.ListenerProvider))
	mailConnector, err := s.makeConnector(ctx, provider)
	if err != nil {
		return err
	}

	intake := connectors.NewIntakeService(s.db, s.cfg.ExcelDir, mailConnector)
	intakeResult, err := intake.FetchAndStore(ctx, s.cfg.ListenerLabel, s.cfg.ListenerFetchMax)
	if err != nil {
		return err
	}

	processor, err := pipeline.NewProcessingService(s.db, s.cfg)
	if err != nil {
		return err
	}
	processed, failed, err := processor.ProcessPending(s.cfg.ListenerProcessBatch)
	if err != nil {
		return err
	}

	indexed := 0
	if s.cfg.ListenerAutoIndex {
		uploader := searchidx.NewUploader(searchidx.NewClient(s.cfg), embedding.New(s.cfg))
		indexed, _, err = processor.IndexExtracted(ctx, uploader, s.cfg.ListenerProcessBatch)
		if err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d processed=%d failed=%d indexed=%d\n",
		provider, intakeResult.Fetched, intakeResult.Stored, processed, failed, indexed)
	return nil
}

func (s *Service) makeConnector(ctx context.Context, provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(ctx, s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
