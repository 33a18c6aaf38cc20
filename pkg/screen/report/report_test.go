package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# Weekly Analysis\n\nSome text."))
	}))
	defer srv.Close()

	got, err := Fetch(context.Background(), srv.URL+"/ANALYSIS.md", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != "# Weekly Analysis\n\nSome text." {
		t.Errorf("body = %q", got)
	}
}

func TestFetchNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.URL, time.Second); err == nil {
		t.Fatal("404 must return an error")
	}
}
