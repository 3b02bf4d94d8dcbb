package library

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
)

// Library is one Audiobookshelf library.
type Library struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type librariesResponse struct {
	Libraries []Library `json:"libraries"`
}

// itemMetadata is the metadata block Audiobookshelf nests under media.
type itemMetadata struct {
	Title      string  `json:"title"`
	Subtitle   string  `json:"subtitle"`
	AuthorName string  `json:"authorName"`
	ASIN       string  `json:"asin"`
	ISBN       string  `json:"isbn"`
	Series     []struct {
		Name     string `json:"name"`
		Sequence string `json:"sequence"`
	} `json:"series"`
	PublishedYear string `json:"publishedYear"`
}

type itemMedia struct {
	Metadata itemMetadata `json:"metadata"`
	Duration float64      `json:"duration"`
}

type libraryItem struct {
	ID    string    `json:"id"`
	Path  string    `json:"path"`
	Media itemMedia `json:"media"`
}

type itemsResponse struct {
	Results []libraryItem `json:"results"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
}

type searchResponse struct {
	Book []struct {
		LibraryItem libraryItem `json:"libraryItem"`
	} `json:"book"`
}

// itemsPageSize is how many items each paginated library request fetches.
const itemsPageSize = 100

// Client talks to an Audiobookshelf server with bearer token auth.
type Client struct {
	baseURL    string
	token      string
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

// New creates an Audiobookshelf client.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("audiobookshelf url required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("audiobookshelf token required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Libraries lists the server's libraries.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var payload librariesResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/libraries", &payload); err != nil {
		return nil, err
	}
	return payload.Libraries, nil
}

// Search runs a per-library search and maps book hits onto observed items
// with library-manager provenance.
func (c *Client) Search(ctx context.Context, libraryID, query string) ([]bookid.ObservedItem, error) {
	libraryID = strings.TrimSpace(libraryID)
	if libraryID == "" {
		return nil, errors.New("library id must not be empty")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	endpoint := c.baseURL + "/api/libraries/" + url.PathEscape(libraryID) + "/search?" +
		url.Values{"q": {query}}.Encode()
	var payload searchResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	items := make([]bookid.ObservedItem, 0, len(payload.Book))
	for _, hit := range payload.Book {
		if item, ok := observedFromItem(hit.LibraryItem); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// Items walks a library's full item listing page by page and maps every book
// onto an observed item.
func (c *Client) Items(ctx context.Context, libraryID string) ([]bookid.ObservedItem, error) {
	libraryID = strings.TrimSpace(libraryID)
	if libraryID == "" {
		return nil, errors.New("library id must not be empty")
	}

	var items []bookid.ObservedItem
	for page := 0; ; page++ {
		endpoint := c.baseURL + "/api/libraries/" + url.PathEscape(libraryID) + "/items?" +
			url.Values{
				"limit": {strconv.Itoa(itemsPageSize)},
				"page":  {strconv.Itoa(page)},
			}.Encode()
		var payload itemsResponse
		if err := c.getJSON(ctx, endpoint, &payload); err != nil {
			return nil, err
		}
		if len(payload.Results) == 0 {
			break
		}
		for _, result := range payload.Results {
			if item, ok := observedFromItem(result); ok {
				items = append(items, item)
			}
		}
		if len(payload.Results) < itemsPageSize {
			break
		}
	}
	return items, nil
}

// AllItems gathers observed items across every library on the server.
func (c *Client) AllItems(ctx context.Context) ([]bookid.ObservedItem, error) {
	libraries, err := c.Libraries(ctx)
	if err != nil {
		return nil, err
	}
	var items []bookid.ObservedItem
	for _, lib := range libraries {
		libItems, err := c.Items(ctx, lib.ID)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", lib.Name, err)
		}
		items = append(items, libItems...)
	}
	return items, nil
}

// AuthorNames returns the distinct author names across every library.
// Multi-author credits split on the common separators.
func (c *Client) AuthorNames(ctx context.Context) ([]string, error) {
	items, err := c.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for _, item := range items {
		for _, author := range item.Authors {
			key := strings.ToLower(author)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, author)
		}
	}
	return names, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audiobookshelf returned %d (latency=%v)", resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode audiobookshelf response: %w", err)
	}
	return nil
}

func observedFromItem(item libraryItem) (bookid.ObservedItem, bool) {
	metadata := item.Media.Metadata
	if strings.TrimSpace(metadata.Title) == "" {
		return bookid.ObservedItem{}, false
	}
	observed := bookid.ObservedItem{
		Title:           metadata.Title,
		Subtitle:        metadata.Subtitle,
		Authors:         splitAuthorNames(metadata.AuthorName),
		ASIN:            metadata.ASIN,
		ISBN13:          bookid.CanonicalISBN13(metadata.ISBN),
		DurationSeconds: int(item.Media.Duration),
		Provenance:      bookid.ProvenanceLibraryManager,
		SourcePath:      item.Path,
	}
	if metadata.ISBN != "" && observed.ISBN13 == "" {
		observed.ISBN10 = bookid.NormalizeISBN(metadata.ISBN)
	}
	if len(metadata.Series) > 0 {
		observed.Series = metadata.Series[0].Name
		observed.SeriesPosition = bookid.NormalizeSeriesPosition(metadata.Series[0].Sequence)
	}
	if year, err := strconv.Atoi(strings.TrimSpace(metadata.PublishedYear)); err == nil {
		observed.Year = year
	}
	return observed, true
}

// splitAuthorNames breaks a combined credit like "A & B" or "A, B and C" into
// individual names.
func splitAuthorNames(combined string) []string {
	combined = strings.TrimSpace(combined)
	if combined == "" {
		return nil
	}
	names := []string{combined}
	for _, sep := range []string{" & ", " and ", ", "} {
		var split []string
		for _, name := range names {
			for _, part := range strings.Split(name, sep) {
				part = strings.TrimSpace(part)
				if len(part) > 1 {
					split = append(split, part)
				}
			}
		}
		names = split
	}
	return names
}
