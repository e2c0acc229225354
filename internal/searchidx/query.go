package searchidx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ctdoc/internal"
)

// PackingFilter is one packing-entry condition; empty fields are not
// constrained.
type PackingFilter struct {
	Type     string
	Material string
	Spec     string
	Company  string
}

type Hit struct {
	ID     string
	Score  float64
	Source internal.Document
}

type SearchResult struct {
	Total int
	Hits  []Hit
}

// FullTextQuery builds the free-text request: product name weighs
// heaviest, then the search-text composite, then lab info.
func FullTextQuery(text string) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     text,
				"fields":    []string{"product_name^3", "search_text^2", "lab_info^1.5"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}
}

// PackingSetsQuery builds the certificate lookup used by the search API:
// every packing set must match one nested packing entry, and the
// document-level conditions narrow further.
func PackingSetsQuery(sets []PackingFilter, labID, labInfo, optimumCapacity, specialNote string) map[string]any {
	must := []map[string]any{}
	filter := []map[string]any{}

	for _, set := range sets {
		inner := []map[string]any{}
		if strings.TrimSpace(set.Type) != "" {
			inner = append(inner, map[string]any{"match": map[string]any{"packing_info.type": set.Type}})
		}
		if strings.TrimSpace(set.Material) != "" {
			inner = append(inner, map[string]any{"term": map[string]any{"packing_info.material": set.Material}})
		}
		if strings.TrimSpace(set.Spec) != "" {
			inner = append(inner, map[string]any{"match": map[string]any{"packing_info.spec": set.Spec}})
		}
		if strings.TrimSpace(set.Company) != "" {
			inner = append(inner, map[string]any{"match": map[string]any{"packing_info.company": set.Company}})
		}
		if len(inner) == 0 {
			continue
		}
		must = append(must, map[string]any{
			"nested": map[string]any{
				"path":  "packing_info",
				"query": map[string]any{"bool": map[string]any{"must": inner}},
			},
		})
	}

	if strings.TrimSpace(labID) != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"lab_id": labID}})
	}
	if strings.TrimSpace(labInfo) != "" {
		must = append(must, map[string]any{"match": map[string]any{"lab_info": labInfo}})
	}
	if strings.TrimSpace(optimumCapacity) != "" {
		must = append(must, map[string]any{"match": map[string]any{"optimum_capacity": optimumCapacity}})
	}
	if strings.TrimSpace(specialNote) != "" {
		must = append(must, map[string]any{
			"nested": map[string]any{
				"path":  "special_notes",
				"query": map[string]any{"match": map[string]any{"special_notes.value": specialNote}},
			},
		})
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"query": map[string]any{"match_all": map[string]any{}}}
	}

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *Client) Search(ctx context.Context, query map[string]any) (SearchResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/"+c.index+"/_search", query)
	if err != nil {
		return SearchResult{}, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SearchResult{}, fmt.Errorf("decode search response: %w", err)
	}

	out := SearchResult{Total: parsed.Hits.Total.Value, Hits: make([]Hit, 0, len(parsed.Hits.Hits))}
	for _, h := range parsed.Hits.Hits {
		var doc internal.Document
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			continue
		}
		out.Hits = append(out.Hits, Hit{ID: h.ID, Score: h.Score, Source: doc})
	}
	return out, nil
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

// GetDocument fetches a document by id; nil when the index does not have
// it.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*internal.Document, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/_doc/%s", c.index, documentID), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var parsed getResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if !parsed.Found {
		return nil, nil
	}

	var doc internal.Document
	if err := json.Unmarshal(parsed.Source, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
