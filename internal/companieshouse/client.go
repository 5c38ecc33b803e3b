package companieshouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chsearch/internal/platform/config"
	"chsearch/internal/platform/metrics"
	"chsearch/internal/search/models"
	dErrors "chsearch/pkg/domain-errors"
)

const defaultRetryAfter = 5 * time.Second

// Client issues authenticated calls against the Companies House API.
//
// Every request is signed with HTTP basic auth (API key as username, empty
// password) by a transport-level RoundTripper, so no per-call configuration
// can drift away from the credential. A 429 response is retried exactly once
// per occurrence after the server-advertised Retry-After delay; a second
// consecutive 429 propagates as an upstream error.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient constructs a registry client from config.
func NewClient(cfg config.CompaniesHouseConfig, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("companies house API key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: signingTransport{apiKey: cfg.APIKey, base: http.DefaultTransport},
		},
		baseURL: cfg.BaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// signingTransport sets the basic-auth header on every outgoing request.
type signingTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.apiKey, "")
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// SearchByKeyword runs the plain keyword search. Paging is upstream-native:
// page is 1-based and translated to a start index.
func (c *Client) SearchByKeyword(ctx context.Context, keyword string, page, pageSize int) (models.SearchPage, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("items_per_page", strconv.Itoa(pageSize))
	params.Set("start_index", strconv.Itoa((page-1)*pageSize))

	var resp searchResponse
	if err := c.get(ctx, "search", "/search/companies", params, &resp); err != nil {
		return models.SearchPage{}, err
	}

	items := make([]models.CompanyRecord, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, it.toRecord())
	}
	return models.SearchPage{Items: items, Total: resp.TotalResults}, nil
}

// AdvancedSearch runs the multi-field search. Absent filter fields are
// omitted from the query, never sent as empty values. An upstream 404 on
// this endpoint means the capability itself is unreachable for this key,
// not "no data", and is translated accordingly.
func (c *Client) AdvancedSearch(ctx context.Context, filters models.SearchFilters, startIndex, size int) (models.SearchPage, error) {
	params := url.Values{}
	if filters.Keyword != "" {
		params.Set("company_name_includes", filters.Keyword)
	}
	for _, s := range filters.CompanyStatus {
		params.Add("company_status", s)
	}
	for _, t := range filters.CompanyType {
		params.Add("company_type", t)
	}
	for _, sic := range filters.SICPrefixes {
		params.Add("sic_codes", sic)
	}
	if filters.IncorporatedFrom != "" {
		params.Set("incorporated_from", filters.IncorporatedFrom)
	}
	if filters.IncorporatedTo != "" {
		params.Set("incorporated_to", filters.IncorporatedTo)
	}
	if filters.Locality != "" {
		params.Set("location", filters.Locality)
	}
	params.Set("size", strconv.Itoa(size))
	params.Set("start_index", strconv.Itoa(startIndex))

	var resp advancedResponse
	if err := c.get(ctx, "advanced_search", "/advanced-search/companies", params, &resp); err != nil {
		if dErrors.UpstreamStatus(err) == http.StatusNotFound {
			return models.SearchPage{}, dErrors.Wrap(dErrors.CodeCapabilityUnavailable,
				"advanced search endpoint unavailable", err)
		}
		return models.SearchPage{}, err
	}

	items := make([]models.CompanyRecord, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, it.toRecord())
	}
	return models.SearchPage{Items: items, Total: resp.Hits}, nil
}

// GetCompanyProfile fetches the full profile for one company.
func (c *Client) GetCompanyProfile(ctx context.Context, companyNumber string) (models.CompanyRecord, error) {
	var resp profileResponse
	if err := c.get(ctx, "profile", "/company/"+url.PathEscape(companyNumber), nil, &resp); err != nil {
		return models.CompanyRecord{}, err
	}
	return resp.toRecord(), nil
}

// Health probes the keyword search endpoint with a minimal query. It is the
// cheapest authenticated call the API offers, so it doubles as an API key
// validity check.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.SearchByKeyword(ctx, "test", 1, 1)
	return err
}

// GetCompanyOfficers fetches the officer roster for one company.
func (c *Client) GetCompanyOfficers(ctx context.Context, companyNumber string) (models.OfficerList, error) {
	var resp models.OfficerList
	if err := c.get(ctx, "officers", "/company/"+url.PathEscape(companyNumber)+"/officers", nil, &resp); err != nil {
		return models.OfficerList{}, err
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	start := time.Now()
	resp, err := c.do(ctx, u)
	if err != nil {
		c.metrics.ObserveUpstream(operation, "transport_error", time.Since(start))
		return dErrors.Wrap(dErrors.CodeUpstream, "companies house request failed", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(operation, strconv.Itoa(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeUpstream, "read companies house response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "companies house API error"
		var ue upstreamError
		if json.Unmarshal(body, &ue) == nil && ue.Error != "" {
			msg = ue.Error
		}
		c.logger.Warn("upstream error",
			"operation", operation,
			"status", resp.StatusCode,
			"message", msg,
		)
		return dErrors.Upstream(resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return dErrors.Wrap(dErrors.CodeUpstream, "decode companies house response", err)
	}
	return nil
}

// do performs the request with a single 429 retry. The retry waits for the
// Retry-After duration or until the context is done, whichever comes first.
func (c *Client) do(ctx context.Context, u string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt > 0 {
			return resp, nil
		}

		wait := retryAfter(resp)
		resp.Body.Close()
		c.logger.Warn("rate limited by upstream", "retry_after", wait.String())

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
