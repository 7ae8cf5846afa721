// Package entrez provides a client for the NCBI Entrez Programming Utilities
// (E-utilities): esearch, efetch and elink.
package entrez

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public E-utilities endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// NCBI allows 3 requests per second per client without an API key.
const defaultRequestsPerSecond = 3

// ErrNoEmail is returned by NewClient when no contact email is configured.
var ErrNoEmail = errors.New("entrez: contact email is required")

// Config holds the settings for a Client. It is built once at startup.
type Config struct {
	BaseURL           string
	Email             string        // operator contact, sent with every request
	Tool              string        // tool name, sent with every request
	Timeout           time.Duration // per-request HTTP timeout
	RequestsPerSecond float64       // 0 uses the NCBI default, <0 disables throttling
}

// DefaultConfig returns a Config with the public endpoint and NCBI limits.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Tool:              "genedb",
		Timeout:           30 * time.Second,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// Client issues E-utilities requests.
type Client struct {
	baseURL    string
	email      string
	tool       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client from cfg. Zero fields fall back to DefaultConfig.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, ErrNoEmail
	}

	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Tool == "" {
		cfg.Tool = def.Tool
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		email:   cfg.Email,
		tool:    cfg.Tool,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
	}, nil
}

// Search runs esearch against db and returns the matching IDs in the order
// the service returned them.
func (c *Client) Search(ctx context.Context, db, term string) ([]string, error) {
	params := url.Values{}
	params.Set("db", db)
	params.Set("term", term)

	var res searchResult
	if err := c.get(ctx, "esearch.fcgi", params, &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ServiceError{Endpoint: "esearch", Message: res.Error}
	}
	return res.IDs, nil
}

// FetchGenes fetches full Entrez Gene records for the given IDs.
func (c *Client) FetchGenes(ctx context.Context, ids ...string) ([]Gene, error) {
	params := url.Values{}
	params.Set("db", "gene")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	var set geneSet
	if err := c.get(ctx, "efetch.fcgi", params, &set); err != nil {
		return nil, err
	}
	if set.Error != "" {
		return nil, &ServiceError{Endpoint: "efetch", Message: set.Error}
	}

	genes := make([]Gene, 0, len(set.Genes))
	for _, g := range set.Genes {
		genes = append(genes, g.toGene())
	}
	return genes, nil
}

// Link runs elink from dbFrom to dbTo for a single ID and returns the linked
// IDs listed under linkName. An empty linkName accepts the first link set.
func (c *Client) Link(ctx context.Context, dbFrom, dbTo, linkName, id string) ([]string, error) {
	params := url.Values{}
	params.Set("dbfrom", dbFrom)
	params.Set("db", dbTo)
	params.Set("id", id)
	if linkName != "" {
		params.Set("linkname", linkName)
	}

	var res linkResult
	if err := c.get(ctx, "elink.fcgi", params, &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ServiceError{Endpoint: "elink", Message: res.Error}
	}
	if len(res.LinkSets) == 0 {
		return nil, nil
	}

	ls := res.LinkSets[0]
	if ls.Error != "" {
		return nil, &ServiceError{Endpoint: "elink", Message: ls.Error}
	}
	for _, db := range ls.LinkSetDBs {
		if linkName == "" || db.LinkName == linkName {
			return db.IDs, nil
		}
	}
	return nil, nil
}

// FetchSequences fetches GenBank records (GBSeq XML) from nuccore.
func (c *Client) FetchSequences(ctx context.Context, ids ...string) ([]Sequence, error) {
	params := url.Values{}
	params.Set("db", "nuccore")
	params.Set("id", strings.Join(ids, ","))
	params.Set("rettype", "gb")
	params.Set("retmode", "xml")

	var set gbSet
	if err := c.get(ctx, "efetch.fcgi", params, &set); err != nil {
		return nil, err
	}
	if set.Error != "" {
		return nil, &ServiceError{Endpoint: "efetch", Message: set.Error}
	}

	seqs := make([]Sequence, 0, len(set.Seqs))
	for _, s := range set.Seqs {
		seqs = append(seqs, s.toSequence())
	}
	return seqs, nil
}

// get performs a throttled GET on endpoint and decodes the XML body into v.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: wait for rate limiter: %w", endpoint, err)
	}

	params.Set("tool", c.tool)
	params.Set("email", c.email)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
