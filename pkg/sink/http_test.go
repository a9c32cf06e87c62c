package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/feedship/feedship/pkg/log"
)

func TestHTTPSinkEmit(t *testing.T) {
	var (
		gotBody        string
		gotContentType string
		gotAuth        string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.Client(), srv.URL, "secret-key", log.NewNoopLogger())

	payload := `[{"sku":"A-1"},{"sku":"B-2"}]`
	if err := s.Emit(context.Background(), []byte(payload)); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if gotBody != payload {
		t.Errorf("body = %q, want %q", gotBody, payload)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestHTTPSinkNoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.Client(), srv.URL, "", log.NewNoopLogger())
	if err := s.Emit(context.Background(), []byte(`[]`)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestHTTPSinkRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.Client(), srv.URL, "", log.NewNoopLogger())

	err := s.Emit(context.Background(), []byte(`[{"sku":"A-1"}]`))
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q should carry the status code", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q should carry the body snippet", err)
	}
}

func TestHTTPSinkTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	srv.Close() // connection refused from here on

	s := NewHTTPSink(client, srv.URL, "", log.NewNoopLogger())
	if err := s.Emit(context.Background(), []byte(`[1]`)); err == nil {
		t.Fatal("expected transport error")
	}
}
