package audnexus_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfarr/internal/bookid"
	"shelfarr/internal/providers/audnexus"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := audnexus.New("  "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchAuthorMapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("name") != "Jonathan Moeller" {
			t.Fatalf("expected name query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
            {"asin":"B00ABC1234","title":"Frostborn: The Gray Knight","releaseDate":"2013-07-01","image":"https://img/1.jpg"},
            {"asin":"B00DEF5678","title":""}
        ]}`))
	}))
	t.Cleanup(server.Close)

	client, err := audnexus.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	records, err := client.SearchAuthor(context.Background(), "Jonathan Moeller", "all")
	if err != nil {
		t.Fatalf("SearchAuthor returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected untitled entries dropped, got %d records", len(records))
	}
	record := records[0]
	if record.Provider != bookid.ProviderAudnexus || record.ASIN != "B00ABC1234" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if len(record.Authors) != 1 || record.Authors[0] != "Jonathan Moeller" {
		t.Fatalf("expected queried author attached, got %#v", record.Authors)
	}
}

func TestGetBookMapsSeriesAndRuntime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/B00ABC1234" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "asin":"B00ABC1234","title":"The Gray Knight","runtimeLengthMin":419,
            "seriesPrimary":{"name":"Frostborn","position":"1"},
            "authors":[{"name":"Jonathan Moeller"}]
        }`))
	}))
	t.Cleanup(server.Close)

	client, err := audnexus.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	record, err := client.GetBook(context.Background(), "b00abc1234")
	if err != nil {
		t.Fatalf("GetBook returned error: %v", err)
	}
	if record.Series != "Frostborn" || record.SeriesPosition != "1" {
		t.Fatalf("series not mapped: %#v", record)
	}
	if record.DurationMinutes != 419 {
		t.Fatalf("runtime not mapped: %d", record.DurationMinutes)
	}
}

func TestSearchAuthorHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := audnexus.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchAuthor(context.Background(), "fail", "all"); err == nil {
		t.Fatal("expected error when audnexus returns non-200")
	}
}

func TestSearchAuthorEmptyName(t *testing.T) {
	client, err := audnexus.New("https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchAuthor(context.Background(), "  ", "all"); err == nil {
		t.Fatal("expected error for empty author name")
	}
}
