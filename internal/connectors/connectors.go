package connectors

import (
	"context"

	"ctdoc/internal"
)

// MailConnector fetches raw messages from the lab mailbox certificates
// arrive on.
type MailConnector interface {
	FetchInbox(ctx context.Context, mailbox string, max int) ([]internal.FetchedMailMessage, error)
}
