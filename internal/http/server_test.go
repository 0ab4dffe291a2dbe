package http

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ctcconv/internal/export/memory"
	"ctcconv/internal/services"
	"ctcconv/internal/storage"
)

type fakeHistory struct{ items []storage.Extraction }

func (f fakeHistory) ListRecentExtractions(ctx context.Context, limit int) ([]storage.Extraction, error) {
	return f.items, nil
}

func newTestServer(history HistoryLister) *Server {
	svc := services.NewExtractionService(memory.New(), nil, nil)
	return NewServer(":0", svc, history)
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Conversor de CTC") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestExtractDownload(t *testing.T) {
	srv := newTestServer(nil)

	rr := postForm(srv, "/extract", url.Values{"document": {"01/2020 732,47\n02/2020 2.258,31"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "dados_ctc") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	if got := rr.Header().Get("X-Record-Count"); got != "2" {
		t.Fatalf("expected 2 records, got %q", got)
	}
	body := rr.Body.String()
	for _, want := range []string{"01/2020,732.47", "02/2020,2258.31"} {
		if !strings.Contains(body, want) {
			t.Fatalf("artifact missing %q:\n%s", want, body)
		}
	}
}

func TestExtractNoMatchesStillDownloads(t *testing.T) {
	srv := newTestServer(nil)

	rr := postForm(srv, "/extract", url.Values{"document": {"texto sem competências"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Record-Count"); got != "0" {
		t.Fatalf("expected 0 records, got %q", got)
	}
}

func TestExtractValidation(t *testing.T) {
	srv := newTestServer(nil)

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/extract", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Empty document
	rr = postForm(srv, "/extract", url.Values{"document": {"   "}})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for empty document, got %d", rr.Code)
	}

	// Unconvertible amount aborts the document
	rr = postForm(srv, "/extract", url.Values{"document": {"01/2020 1,234,56"}})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for bad amount, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "1,234,56") {
		t.Fatalf("error message should name the offending amount: %s", rr.Body.String())
	}
}

func TestHistoryPartial(t *testing.T) {
	history := fakeHistory{items: []storage.Extraction{{
		ID:           3,
		CreatedAt:    time.Now(),
		RecordCount:  2,
		TotalCents:   299078,
		ArtifactName: "dados_ctc.xlsx",
		SyncedAt:     sql.NullTime{Time: time.Now(), Valid: true},
	}}}
	srv := newTestServer(history)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/history", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("history status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "2.990,78") {
		t.Fatalf("history missing formatted total: %s", body)
	}
	if !strings.Contains(body, "dados_ctc.xlsx") {
		t.Fatalf("history missing artifact name: %s", body)
	}
}

func TestFormatValor(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{73247, "732,47"},
		{225831, "2.258,31"},
		{123456789, "1.234.567,89"},
		{5, "0,05"},
		{-10050, "-100,50"},
	}
	for _, tc := range cases {
		if got := formatValor(tc.cents); got != tc.want {
			t.Fatalf("formatValor(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
