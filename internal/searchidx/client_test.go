package searchidx

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"ctdoc/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClient(transport roundTripFunc) *Client {
	cfg, _ := config.Load()
	cfg.SearchBaseURL = "http://search.test"
	cfg.SearchIndex = "ct_documents"
	cfg.SearchRateLimitRPS = 1000
	client := NewClient(cfg)
	client.httpClient = &http.Client{Transport: transport}
	return client
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestDoRetriesTransientStatus(t *testing.T) {
	attempt := 0
	client := testClient(func(r *http.Request) (*http.Response, error) {
		attempt++
		if attempt == 1 {
			return response(http.StatusInternalServerError, `{"error":"boom"}`), nil
		}
		return response(http.StatusOK, `{"acknowledged":true}`), nil
	})

	body, err := client.do(context.Background(), http.MethodGet, "/ct_documents", nil)
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
	if !strings.Contains(string(body), "acknowledged") {
		t.Fatalf("body %s", body)
	}
}

func TestDoDoesNotRetryClientError(t *testing.T) {
	attempt := 0
	client := testClient(func(r *http.Request) (*http.Response, error) {
		attempt++
		return response(http.StatusBadRequest, `{"error":"malformed"}`), nil
	})

	_, err := client.do(context.Background(), http.MethodPost, "/ct_documents/_search", map[string]any{})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempt != 1 {
		t.Fatalf("attempts=%d", attempt)
	}
}

func TestIsNotFound(t *testing.T) {
	client := testClient(func(r *http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, `{"found":false}`), nil
	})

	_, err := client.do(context.Background(), http.MethodGet, "/ct_documents/_doc/DOCX", nil)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	doc, err := client.GetDocument(context.Background(), "DOCX")
	if err != nil {
		t.Fatal(err)
	}
	if doc != nil {
		t.Fatal("missing document must be nil")
	}
}

func TestSearchParsesHits(t *testing.T) {
	var gotPath string
	client := testClient(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		return response(http.StatusOK, `{
			"hits": {
				"total": {"value": 1},
				"hits": [
					{"_id": "DOC1", "_score": 2.5, "_source": {"document_id": "DOC1", "product_name": "로얄 프레쉬 수딩 토너"}}
				]
			}
		}`), nil
	})

	result, err := client.Search(context.Background(), FullTextQuery("수딩 토너"))
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/ct_documents/_search" {
		t.Fatalf("path %s", gotPath)
	}
	if result.Total != 1 || len(result.Hits) != 1 {
		t.Fatalf("result %+v", result)
	}
	hit := result.Hits[0]
	if hit.ID != "DOC1" || hit.Score != 2.5 {
		t.Fatalf("hit %+v", hit)
	}
	if hit.Source.ProductName == nil || *hit.Source.ProductName != "로얄 프레쉬 수딩 토너" {
		t.Fatalf("source %+v", hit.Source)
	}
}
