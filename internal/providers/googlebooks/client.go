package googlebooks

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

// volume is one entry of the Google Books volumes payload.
type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Subtitle            string   `json:"subtitle"`
		Authors             []string `json:"authors"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		Language            string   `json:"language"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// maxResults caps how many volumes one author query requests.
const maxResults = 40

// Client provides access to the Google Books volumes API.
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

// New creates a Google Books client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("google books base url required")
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
	return bookid.ProviderGoogleBooks
}

// SearchAuthor queries Google Books for an author's volumes using an
// inauthor: restriction. When languageFilter names a language code the
// request carries langRestrict and non-matching volumes are dropped, since
// the API treats langRestrict as advisory.
func (c *Client) SearchAuthor(ctx context.Context, name, languageFilter string) ([]bookid.CandidateRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("author name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/volumes")
	if err != nil {
		return nil, fmt.Errorf("parse google books url: %w", err)
	}
	params := url.Values{}
	params.Set("q", fmt.Sprintf("inauthor:%q", name))
	params.Set("maxResults", strconv.Itoa(maxResults))
	if languageFilter != "" && languageFilter != "all" {
		// The API wants ISO 639-1 regardless of how the filter was written.
		if code := language.ToISO2(languageFilter); code != "" {
			params.Set("langRestrict", code)
		}
	}
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
		return nil, fmt.Errorf("google books search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode google books response: %w", err)
	}

	records := make([]bookid.CandidateRecord, 0, len(payload.Items))
	for _, item := range payload.Items {
		info := item.VolumeInfo
		if strings.TrimSpace(info.Title) == "" {
			continue
		}
		if !language.Matches(info.Language, languageFilter) {
			continue
		}
		record := bookid.CandidateRecord{
			Provider:    bookid.ProviderGoogleBooks,
			RecordID:    item.ID,
			Title:       info.Title,
			Subtitle:    info.Subtitle,
			Authors:     info.Authors,
			ReleaseDate: info.PublishedDate,
			Description: info.Description,
			CoverURL:    info.ImageLinks.Thumbnail,
			Language:    info.Language,
		}
		for _, identifier := range info.IndustryIdentifiers {
			switch identifier.Type {
			case "ISBN_10":
				record.ISBN10 = identifier.Identifier
			case "ISBN_13":
				record.ISBN13 = identifier.Identifier
			}
		}
		records = append(records, record)
	}
	return records, nil
}
