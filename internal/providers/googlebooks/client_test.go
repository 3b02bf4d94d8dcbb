package googlebooks_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shelfarr/internal/bookid"
	"shelfarr/internal/providers/googlebooks"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := googlebooks.New(""); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchAuthorMapsVolumes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if !strings.Contains(query, `inauthor:"Jonathan Moeller"`) {
			t.Fatalf("expected inauthor query, got %q", query)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{
            "id":"vol1",
            "volumeInfo":{
                "title":"Frostborn: The Gray Knight",
                "authors":["Jonathan Moeller"],
                "publishedDate":"2013-07-01",
                "language":"en",
                "industryIdentifiers":[
                    {"type":"ISBN_10","identifier":"0306406152"},
                    {"type":"ISBN_13","identifier":"9780306406157"}
                ],
                "imageLinks":{"thumbnail":"https://img/1.jpg"}
            }
        }]}`))
	}))
	t.Cleanup(server.Close)

	client, err := googlebooks.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	records, err := client.SearchAuthor(context.Background(), "Jonathan Moeller", "all")
	if err != nil {
		t.Fatalf("SearchAuthor returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record.Provider != bookid.ProviderGoogleBooks || record.RecordID != "vol1" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if record.ISBN10 != "0306406152" || record.ISBN13 != "9780306406157" {
		t.Fatalf("identifiers not mapped: %#v", record)
	}
}

func TestSearchAuthorAppliesLanguageFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("langRestrict") != "en" {
			t.Fatalf("expected langRestrict parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":2,"items":[
            {"id":"en1","volumeInfo":{"title":"Kept","language":"en"}},
            {"id":"de1","volumeInfo":{"title":"Dropped","language":"de"}}
        ]}`))
	}))
	t.Cleanup(server.Close)

	client, err := googlebooks.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	records, err := client.SearchAuthor(context.Background(), "Jonathan Moeller", "en")
	if err != nil {
		t.Fatalf("SearchAuthor returned error: %v", err)
	}
	if len(records) != 1 || records[0].RecordID != "en1" {
		t.Fatalf("language filter not applied: %#v", records)
	}
}

func TestSearchAuthorHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := googlebooks.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchAuthor(context.Background(), "fail", "all"); err == nil {
		t.Fatal("expected error when google books returns non-200")
	}
}
