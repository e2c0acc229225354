package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"ctdoc/internal"
	"ctdoc/internal/pipeline"
	"ctdoc/internal/searchidx"
	"ctdoc/internal/util"
)

type packingCondition struct {
	Type     string `json:"type"`
	Material string `json:"material"`
	Spec     string `json:"spec"`
	Company  string `json:"company"`
}

type searchRequest struct {
	Packages        []packingCondition `json:"packages"`
	LabID           string             `json:"lab_id"`
	LabInfo         string             `json:"lab_info"`
	OptimumCapacity string             `json:"optimum_capacity"`
	SpecialNote     string             `json:"special_note"`
}

type searchResponse struct {
	Results []internal.Document `json:"results"`
	Total   int                 `json:"total"`
}

type generateRequest struct {
	DocumentIDs      []string `json:"document_ids"`
	AdditionalPrompt string   `json:"additional_prompt"`
}

type generateResponse struct {
	Status       string                 `json:"status"`
	FileName     string                 `json:"file_name"`
	SpecialNotes []internal.SpecialNote `json:"special_notes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sets := make([]searchidx.PackingFilter, 0, len(req.Packages))
	for _, p := range req.Packages {
		sets = append(sets, searchidx.PackingFilter{
			Type:     p.Type,
			Material: p.Material,
			Spec:     p.Spec,
			Company:  p.Company,
		})
	}

	query := searchidx.PackingSetsQuery(sets, req.LabID, req.LabInfo, req.OptimumCapacity, req.SpecialNote)
	result, err := s.search.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "search backend unavailable")
		return
	}

	resp := searchResponse{Results: make([]internal.Document, 0, len(result.Hits)), Total: result.Total}
	for _, hit := range result.Hits {
		resp.Results = append(resp.Results, hit.Source)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := s.search.GetDocument(r.Context(), documentID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "search backend unavailable")
		return
	}
	if doc == nil {
		row, err := s.db.GetDocument(documentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "document lookup failed")
			return
		}
		if row == nil {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		doc = &row.Doc
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.DocumentIDs) == 0 {
		writeError(w, http.StatusBadRequest, "document_ids is empty")
		return
	}

	docs := make([]internal.Document, 0, len(req.DocumentIDs))
	for _, id := range req.DocumentIDs {
		row, err := s.db.GetDocument(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "document lookup failed")
			return
		}
		if row == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("document not found: %s", id))
			return
		}
		docs = append(docs, row.Doc)
	}

	notes := mergeSpecialNotes(docs)

	fileName := fmt.Sprintf("ct_notes_%s.xlsx", time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(s.cfg.OutputDir, "generate", fileName)
	if err := pipeline.ExportNotesXLSX(docs, outputPath); err != nil {
		writeError(w, http.StatusInternalServerError, "notes export failed")
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Status:       "success",
		FileName:     fileName,
		SpecialNotes: notes,
	})
}

// mergeSpecialNotes combines notes from several documents, grouped by
// key in first-seen order with values joined per document.
func mergeSpecialNotes(docs []internal.Document) []internal.SpecialNote {
	order := []string{}
	byKey := map[string][]string{}
	for _, doc := range docs {
		for _, note := range doc.SpecialNotes {
			if _, seen := byKey[note.Key]; !seen {
				order = append(order, note.Key)
			}
			if note.Value != nil {
				byKey[note.Key] = append(byKey[note.Key], *note.Value)
			} else if _, seen := byKey[note.Key]; !seen {
				byKey[note.Key] = []string{}
			}
		}
	}

	out := make([]internal.SpecialNote, 0, len(order))
	for _, key := range order {
		values := byKey[key]
		var value *string
		if len(values) > 0 {
			joined := values[0]
			for _, v := range values[1:] {
				joined += "\n\n" + v
			}
			value = util.StringPtr(joined)
		}
		out = append(out, internal.SpecialNote{Key: key, Value: value})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
