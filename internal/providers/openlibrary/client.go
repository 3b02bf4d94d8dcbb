package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shelfarr/internal/bookid"
	"shelfarr/internal/language"
)

// doc is one entry of the Open Library search payload.
type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorName       []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int64    `json:"cover_i"`
	Language         []string `json:"language"`
}

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

// searchLimit caps how many docs one author query requests.
const searchLimit = 100

// Client provides access to the Open Library search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an Open Library client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("openlibrary base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Provider identifies the records this client produces.
func (c *Client) Provider() bookid.Provider {
	return bookid.ProviderOpenLibrary
}

// SearchAuthor queries Open Library for an author's works. Docs list every
// language an edition was published in; a doc survives the language filter
// when any of its languages matches.
func (c *Client) SearchAuthor(ctx context.Context, name, languageFilter string) ([]bookid.CandidateRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("author name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse openlibrary url: %w", err)
	}
	params := url.Values{}
	params.Set("author", name)
	params.Set("limit", strconv.Itoa(searchLimit))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openlibrary response: %w", err)
	}

	records := make([]bookid.CandidateRecord, 0, len(payload.Docs))
	for _, entry := range payload.Docs {
		if strings.TrimSpace(entry.Title) == "" {
			continue
		}
		if len(entry.Language) > 0 && !anyLanguageMatches(entry.Language, languageFilter) {
			continue
		}
		record := bookid.CandidateRecord{
			Provider: bookid.ProviderOpenLibrary,
			RecordID: entry.Key,
			Title:    entry.Title,
			Subtitle: entry.Subtitle,
			Authors:  entry.AuthorName,
		}
		if entry.FirstPublishYear > 0 {
			record.ReleaseDate = strconv.Itoa(entry.FirstPublishYear)
		}
		if entry.CoverID > 0 {
			record.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", entry.CoverID)
		}
		if len(entry.Language) > 0 {
			record.Language = entry.Language[0]
		}
		record.ISBN10, record.ISBN13 = pickISBNs(entry.ISBN)
		records = append(records, record)
	}
	return records, nil
}

func anyLanguageMatches(codes []string, filter string) bool {
	for _, code := range codes {
		if language.Matches(code, filter) {
			return true
		}
	}
	return false
}

// pickISBNs selects the first ISBN-10 and first ISBN-13 out of a doc's
// undifferentiated isbn list.
func pickISBNs(isbns []string) (isbn10, isbn13 string) {
	for _, raw := range isbns {
		normalized := bookid.NormalizeISBN(raw)
		switch len(normalized) {
		case 10:
			if isbn10 == "" {
				isbn10 = normalized
			}
		case 13:
			if isbn13 == "" {
				isbn13 = normalized
			}
		}
		if isbn10 != "" && isbn13 != "" {
			break
		}
	}
	return isbn10, isbn13
}
