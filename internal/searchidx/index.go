package searchidx

import (
	"context"
	"net/http"
)

// indexMapping mirrors the certificate document shape: keyword fields
// for exact filters, analyzed text for the bilingual free-text fields,
// nested mappings for the three entry lists, a dense vector per special
// note for the semantic stage.
func indexMapping(embeddingDims int) map[string]any {
	koreanText := map[string]any{"type": "text", "analyzer": "korean_analyzer"}
	keyword := map[string]any{"type": "keyword"}
	date := map[string]any{"type": "date", "format": "yyyy-MM-dd||strict_date_optional_time"}

	return map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"korean_analyzer": map[string]any{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "stop"},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"document_id":  keyword,
				"file_name":    koreanText,
				"test_no":      keyword,
				"product_name": koreanText,
				"customer":     keyword,
				"developer":    keyword,
				"requester":    keyword,
				"test_count":   keyword,
				"test_quantity": keyword,
				"test_date":     date,
				"expected_date": date,
				"writer":        keyword,
				"reviewer":      keyword,
				"approver":      keyword,

				"optimum_capacity": koreanText,
				"summary":          koreanText,
				"download_url":     keyword,

				"lab_id":   keyword,
				"lab_info": koreanText,

				"packing_info": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"type":     koreanText,
						"material": keyword,
						"spec":     koreanText,
						"company":  koreanText,
					},
				},
				"experiment_info": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"code":     keyword,
						"item":     koreanText,
						"period":   keyword,
						"check":    keyword,
						"standard": koreanText,
						"result":   koreanText,
					},
				},
				"special_notes": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"key":   koreanText,
						"value": koreanText,
						"embedding": map[string]any{
							"type": "dense_vector",
							"dims": embeddingDims,
						},
					},
				},

				"search_text": koreanText,

				"created_at": map[string]any{"type": "date"},
				"updated_at": map[string]any{"type": "date"},
				"tags":       keyword,
				"status":     keyword,
			},
		},
	}
}

// CreateIndex drops and recreates the index with the current mapping.
func (c *Client) CreateIndex(ctx context.Context, embeddingDims int) error {
	if err := c.DeleteIndex(ctx); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPut, "/"+c.index, indexMapping(embeddingDims))
	return err
}

func (c *Client) DeleteIndex(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/"+c.index, nil)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/"+c.index+"/_refresh", nil)
	return err
}
