package searchidx

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ctdoc/internal"
	"ctdoc/internal/embedding"
	"ctdoc/internal/util"
)

// IndexedNote is a special note with its semantic vector attached.
type IndexedNote struct {
	Key       string    `json:"key"`
	Value     *string   `json:"value"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// IndexedDocument is the document as stored in the index: the normalized
// record plus the search-text composite, tags and timestamps.
type IndexedDocument struct {
	internal.Document
	SpecialNotes []IndexedNote `json:"special_notes"`
	SearchText   string        `json:"search_text"`
	Tags         []string      `json:"tags"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}

type Uploader struct {
	client   *Client
	embedder embedding.Embedder
}

func NewUploader(client *Client, embedder embedding.Embedder) *Uploader {
	return &Uploader{client: client, embedder: embedder}
}

// BuildIndexedDocument preprocesses one document for indexing: blanks
// out structurally invalid date fields, concatenates the search-text
// composite, derives filter tags and embeds each note value.
func (u *Uploader) BuildIndexedDocument(ctx context.Context, doc internal.Document, now time.Time) IndexedDocument {
	doc.TestDate = validDateOrNil(doc.TestDate)
	doc.ExpectedDate = validDateOrNil(doc.ExpectedDate)

	notes := make([]IndexedNote, 0, len(doc.SpecialNotes))
	for _, note := range doc.SpecialNotes {
		indexed := IndexedNote{Key: note.Key, Value: note.Value}
		if note.Value != nil && u.embedder != nil {
			if vec, err := u.embedder.Embed(ctx, *note.Value); err == nil {
				indexed.Embedding = vec
			}
		}
		notes = append(notes, indexed)
	}

	ts := now.UTC().Format(time.RFC3339)
	return IndexedDocument{
		Document:     doc,
		SpecialNotes: notes,
		SearchText:   searchText(doc),
		Tags:         tags(doc),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

func (u *Uploader) IndexDocument(ctx context.Context, doc internal.Document) error {
	indexed := u.BuildIndexedDocument(ctx, doc, time.Now())
	path := fmt.Sprintf("/%s/_doc/%s", u.client.index, doc.DocumentID)
	_, err := u.client.do(ctx, http.MethodPut, path, indexed)
	return err
}

// BulkIndex uploads documents one by one and refreshes once at the end.
// A failing document does not stop the batch.
func (u *Uploader) BulkIndex(ctx context.Context, docs []internal.Document) (indexed, failed int, err error) {
	for _, doc := range docs {
		if err := u.IndexDocument(ctx, doc); err != nil {
			fmt.Printf("index %s failed: %v\n", doc.DocumentID, err)
			failed++
			continue
		}
		indexed++
	}
	if indexed > 0 {
		if err := u.client.Refresh(ctx); err != nil {
			return indexed, failed, err
		}
	}
	return indexed, failed, nil
}

// searchText concatenates every free-text fragment a user might search
// for. Fragment order follows document reading order.
func searchText(doc internal.Document) string {
	parts := make([]string, 0, 16)
	add := func(v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			parts = append(parts, *v)
		}
	}

	add(doc.ProductName)
	add(doc.Customer)
	add(doc.LabInfo)
	for _, exp := range doc.ExperimentInfo {
		add(util.StringPtr(exp.Item))
		add(exp.Standard)
		add(exp.Result)
	}
	for _, note := range doc.SpecialNotes {
		add(util.StringPtr(note.Key))
		add(note.Value)
	}
	for _, pack := range doc.PackingInfo {
		add(util.StringPtr(pack.Type))
		add(pack.Material)
		add(pack.Spec)
	}

	return strings.Join(parts, " ")
}

func tags(doc internal.Document) []string {
	out := []string{}
	if doc.Customer != nil {
		out = append(out, "customer:"+*doc.Customer)
	}
	if doc.TestCount != nil {
		out = append(out, "test_count:"+*doc.TestCount)
	}
	if doc.Developer != nil {
		out = append(out, "developer:"+*doc.Developer)
	}
	return out
}

// validDateOrNil keeps only canonical YYYY-MM-DD values; the extraction
// falls back to original text for unparseable dates and the index date
// field must not see those.
func validDateOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *v); err != nil {
		return nil
	}
	return v
}
