package library_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfarr/internal/bookid"
	"shelfarr/internal/library"
)

func TestNewRequiresURLAndToken(t *testing.T) {
	if _, err := library.New("", "token"); err == nil {
		t.Fatal("expected error when url missing")
	}
	if _, err := library.New("https://abs.example.com", " "); err == nil {
		t.Fatal("expected error when token missing")
	}
}

func TestSearchMapsBookHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Fatalf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/api/libraries/lib1/search" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Frostborn" {
			t.Fatalf("expected q parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"book":[{"libraryItem":{
            "id":"item1",
            "path":"/audiobooks/frostborn",
            "media":{
                "duration":25140.5,
                "metadata":{
                    "title":"Frostborn: The Gray Knight",
                    "authorName":"Jonathan Moeller",
                    "asin":"B00ABC1234",
                    "series":[{"name":"Frostborn","sequence":"1"}]
                }
            }
        }}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := library.New(server.URL, "secret")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, err := client.Search(context.Background(), "lib1", "Frostborn")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Provenance != bookid.ProvenanceLibraryManager {
		t.Fatalf("unexpected provenance: %q", item.Provenance)
	}
	if item.Series != "Frostborn" || item.SeriesPosition != "1" {
		t.Fatalf("series not mapped: %#v", item)
	}
	if item.DurationSeconds != 25140 {
		t.Fatalf("duration not mapped: %d", item.DurationSeconds)
	}
	if item.ASIN != "B00ABC1234" {
		t.Fatalf("asin not mapped: %q", item.ASIN)
	}
}

func TestItemsPaginatesUntilShortPage(t *testing.T) {
	pagesServed := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed++
		w.Header().Set("Content-Type", "application/json")
		if page == "0" {
			// A full page forces a second request.
			var results string
			for i := 0; i < 100; i++ {
				if i > 0 {
					results += ","
				}
				results += `{"media":{"metadata":{"title":"Book"}}}`
			}
			_, _ = w.Write([]byte(`{"results":[` + results + `]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"media":{"metadata":{"title":"Last"}}}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := library.New(server.URL, "secret")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, err := client.Items(context.Background(), "lib1")
	if err != nil {
		t.Fatalf("Items returned error: %v", err)
	}
	if pagesServed != 2 {
		t.Fatalf("expected 2 page fetches, got %d", pagesServed)
	}
	if len(items) != 101 {
		t.Fatalf("expected 101 items, got %d", len(items))
	}
}

func TestAuthorNamesSplitsCombinedCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/libraries":
			_, _ = w.Write([]byte(`{"libraries":[{"id":"lib1","name":"Audiobooks"}]}`))
		case "/api/libraries/lib1/items":
			_, _ = w.Write([]byte(`{"results":[
                {"media":{"metadata":{"title":"One","authorName":"Alice Author & Bob Writer"}}},
                {"media":{"metadata":{"title":"Two","authorName":"alice author"}}}
            ]}`))
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	client, err := library.New(server.URL, "secret")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	names, err := client.AuthorNames(context.Background())
	if err != nil {
		t.Fatalf("AuthorNames returned error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 distinct authors, got %#v", names)
	}
	if names[0] != "Alice Author" || names[1] != "Bob Writer" {
		t.Fatalf("unexpected names: %#v", names)
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := library.New(server.URL, "wrong")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Search(context.Background(), "lib1", "query"); err == nil {
		t.Fatal("expected error when server rejects token")
	}
}
