package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"ctcconv/internal/core"
	"ctcconv/internal/storage"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		History []storage.Extraction
	}{
		History: s.recentHistory(r),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleExtract runs the pipeline on the pasted text and streams the
// spreadsheet back as a download.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato de requisição inválido</div>`))
		return
	}

	text := sanitizeInput(r.Form.Get("document"))
	if text == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Cole o texto da CTC antes de enviar</div>`))
		return
	}

	res, err := s.service.ProcessDocument(r.Context(), text)
	if err != nil {
		var convErr *core.ValueConversionError
		if errors.As(err, &convErr) {
			slog.WarnContext(r.Context(), "Amount conversion failed",
				"raw_amount", convErr.Raw,
				"source_chars", len(text))
			w.WriteHeader(http.StatusUnprocessableEntity)
			msg := fmt.Sprintf(`<div class="error">Não foi possível converter o valor %s. Verifique o formato do texto de entrada.</div>`,
				template.HTMLEscapeString(convErr.Raw))
			_, _ = w.Write([]byte(msg))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to process document",
			"error", err,
			"source_chars", len(text),
			"operation", "extract")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao processar os dados</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Document processed",
		"record_count", len(res.Records),
		"artifact", res.Artifact.Name,
		"extraction_id", res.ExtractionID,
		"operation", "extract")

	w.Header().Set("Content-Type", contentTypeFor(res.Artifact.Name))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Artifact.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Artifact.Data)))
	w.Header().Set("X-Record-Count", strconv.Itoa(len(res.Records)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact.Data)
}

// handleHistory renders the recent extractions partial.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct {
		History []storage.Extraction
	}{
		History: s.recentHistory(r),
	}
	if err := s.templates.ExecuteTemplate(w, "history.html", data); err != nil {
		slog.ErrorContext(r.Context(), "History template execution failed", "error", err, "template", "history.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) recentHistory(r *http.Request) []storage.Extraction {
	if s.history == nil {
		return nil
	}
	items, err := s.history.ListRecentExtractions(r.Context(), 10)
	if err != nil {
		slog.ErrorContext(r.Context(), "History list error", "error", err)
		return nil
	}
	return items
}
