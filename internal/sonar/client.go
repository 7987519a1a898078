// Package sonar fetches issues from the SonarQube web API, or from a dump of it.
package sonar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	sharedlog "github.com/pvojtechovsky/sonarqube-repair/pkg/shared/logger"
)

const (
	issuesSearchPath = "/api/issues/search"

	// MaxResults is the number of issues the search API returns at most,
	// whatever the paging.
	MaxResults = 10000
	// DefaultPageSize is the largest page the search API accepts.
	DefaultPageSize = 500
)

// ErrMissingIssues is returned when a search response carries no issues array.
var ErrMissingIssues = errors.New("response has no issues array")

type paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

type searchResponse struct {
	Total  int               `json:"total"`
	Paging *paging           `json:"paging"`
	Issues []json.RawMessage `json:"issues"`
}

func (r searchResponse) total() int {
	if r.Paging != nil {
		return r.Paging.Total
	}
	return r.Total
}

// Client reads issues of one SonarQube server.
type Client struct {
	httpc    *resty.Client
	url      string
	pageSize int
	logger   hclog.Logger
}

// New returns a client for the server at baseURL. token, when set, is sent as
// the basic-auth user as SonarQube expects. A nil httpc gets a plain resty client.
func New(baseURL, token string, httpc *resty.Client, logger hclog.Logger) *Client {
	if httpc == nil {
		httpc = resty.New()
	}
	logger = sharedlog.OrNull(logger)
	httpc.SetBaseURL(baseURL)
	if token != "" {
		httpc.SetBasicAuth(token, "")
	}

	return &Client{
		httpc:    httpc,
		url:      baseURL,
		pageSize: DefaultPageSize,
		logger:   logger,
	}
}

// SetPageSize sets the number of issues requested per page. Values outside
// 1..DefaultPageSize are ignored.
func (c *Client) SetPageSize(n int) *Client {
	if n > 0 && n <= DefaultPageSize {
		c.pageSize = n
	}
	return c
}

// Fetch returns the raw issue records of projectKey reported for ruleKey.
// filter is an extra URL query, e.g. "resolved=false&types=CODE_SMELL".
// The result is never nil on success.
func (c *Client) Fetch(ctx context.Context, ruleKey, filter, projectKey string) ([]json.RawMessage, error) {
	query, err := url.ParseQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid issue filter %q: %w", filter, err)
	}
	query.Set("componentKeys", projectKey)
	query.Set("rules", ruleKey)
	query.Set("ps", strconv.Itoa(c.pageSize))

	out := make([]json.RawMessage, 0)
	for page := 1; ; page++ {
		r, err := c.searchPage(ctx, query, page)
		if err != nil {
			return nil, fmt.Errorf("search issues of rule '%s' in '%s': %w", ruleKey, projectKey, err)
		}
		out = append(out, r.Issues...)

		total := r.total()
		c.logger.Debug("fetched issues page", "rule", ruleKey, "page", page, "issues", len(r.Issues), "total", total)

		if len(r.Issues) == 0 || len(out) >= total {
			break
		}
		if page*c.pageSize >= MaxResults {
			c.logger.Warn("issue search truncated", "rule", ruleKey, "total", total, "fetched", len(out), "limit", MaxResults)
			break
		}
	}

	c.logger.Info("issues fetched", "server", c.url, "rule", ruleKey, "project", projectKey, "count", len(out))
	return out, nil
}

func (c *Client) searchPage(ctx context.Context, query url.Values, page int) (*searchResponse, error) {
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		SetQueryParam("p", strconv.Itoa(page)).
		Get(issuesSearchPath)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on page %d", resp.StatusCode(), page)
	}

	var r searchResponse
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	if r.Issues == nil {
		return nil, ErrMissingIssues
	}
	return &r, nil
}

// RuleKey joins a rule repository and a rule number, e.g. "squid:S1854".
func RuleKey(repository, number string) string {
	return repository + ":" + number
}
