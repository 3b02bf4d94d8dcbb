package audnexus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shelfarr/internal/bookid"
)

// searchResult is one entry of the Audnexus search payload.
type searchResult struct {
	ASIN        string `json:"asin"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ReleaseDate string `json:"releaseDate"`
	Image       string `json:"image"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// bookDetail is the per-ASIN payload, the only place Audnexus reports series
// membership and runtime.
type bookDetail struct {
	ASIN          string `json:"asin"`
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	Description   string `json:"description"`
	ReleaseDate   string `json:"releaseDate"`
	Image         string `json:"image"`
	Language      string `json:"language"`
	RuntimeLength int    `json:"runtimeLengthMin"`
	SeriesPrimary *struct {
		Name     string `json:"name"`
		Position string `json:"position"`
	} `json:"seriesPrimary"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// maxSearchResults caps how many search entries one author query yields.
const maxSearchResults = 40

// Client provides access to the Audnexus API.
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

// New creates an Audnexus client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("audnexus base url required")
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
	return bookid.ProviderAudnexus
}

// SearchAuthor queries Audnexus for an author's audiobooks. Search results
// carry no language field, so the language filter cannot be applied here;
// callers wanting it should hydrate details via GetBook.
func (c *Client) SearchAuthor(ctx context.Context, name, _ string) ([]bookid.CandidateRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("author name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse audnexus url: %w", err)
	}
	params := url.Values{}
	params.Set("name", name)
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.getJSON(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}

	results := payload.Results
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	records := make([]bookid.CandidateRecord, 0, len(results))
	for _, result := range results {
		if strings.TrimSpace(result.Title) == "" {
			continue
		}
		records = append(records, bookid.CandidateRecord{
			Provider:    bookid.ProviderAudnexus,
			RecordID:    result.ASIN,
			Title:       result.Title,
			Subtitle:    result.Subtitle,
			Authors:     []string{name},
			ASIN:        result.ASIN,
			ReleaseDate: result.ReleaseDate,
			CoverURL:    result.Image,
		})
	}
	return records, nil
}

// GetBook fetches full metadata for one ASIN, including series membership and
// runtime minutes.
func (c *Client) GetBook(ctx context.Context, asin string) (*bookid.CandidateRecord, error) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if asin == "" {
		return nil, errors.New("asin must not be empty")
	}

	var payload bookDetail
	if err := c.getJSON(ctx, c.baseURL+"/books/"+url.PathEscape(asin), &payload); err != nil {
		return nil, err
	}

	record := bookid.CandidateRecord{
		Provider:        bookid.ProviderAudnexus,
		RecordID:        payload.ASIN,
		Title:           payload.Title,
		Subtitle:        payload.Subtitle,
		ASIN:            payload.ASIN,
		ReleaseDate:     payload.ReleaseDate,
		Description:     payload.Description,
		CoverURL:        payload.Image,
		Language:        payload.Language,
		DurationMinutes: payload.RuntimeLength,
	}
	for _, author := range payload.Authors {
		if strings.TrimSpace(author.Name) != "" {
			record.Authors = append(record.Authors, author.Name)
		}
	}
	if payload.SeriesPrimary != nil {
		record.Series = payload.SeriesPrimary.Name
		record.SeriesPosition = bookid.NormalizeSeriesPosition(payload.SeriesPrimary.Position)
	}
	return &record, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audnexus returned %d (latency=%v)", resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode audnexus response: %w", err)
	}
	return nil
}
