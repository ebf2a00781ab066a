package magento

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
	"github.com/secmon-lab/magento-oaa/pkg/utils/safe"
	"github.com/shurcooL/graphql"
	"golang.org/x/oauth2"
)

const defaultTimeout = 60 * time.Second

type client struct {
	storeURL string
	http     *http.Client
	gql      *graphql.Client
}

type options struct {
	timeout    time.Duration
	baseClient *http.Client
}

type Option func(*options)

// WithTimeout sets the timeout of every request, token requests included
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient sets the client whose transport carries all requests
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.baseClient = hc
	}
}

// New creates a Magento Service for the store at storeURL
func New(ctx context.Context, storeURL string, creds Credentials, opts ...Option) (Service, error) {
	if storeURL == "" {
		return nil, goerr.New("store URL is required")
	}
	if creds == nil {
		return nil, goerr.New("credentials are required")
	}
	if _, err := url.ParseRequestURI(storeURL); err != nil {
		return nil, goerr.Wrap(err, "invalid store URL", goerr.V(URLKey, storeURL))
	}

	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.baseClient
	if base == nil {
		base = &http.Client{}
	}
	tokenClient := &http.Client{Transport: base.Transport, Timeout: o.timeout}

	storeURL = strings.TrimRight(storeURL, "/")
	ts := newTokenSource(ctx, creds, storeURL, tokenClient)

	authed := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
		Timeout:   o.timeout,
	}

	return &client{
		storeURL: storeURL,
		http:     authed,
		gql:      graphql.NewClient(storeURL+"/graphql", authed),
	}, nil
}

func (c *client) FetchCompany(ctx context.Context) (*GraphQLData, error) {
	var q companyQuery
	logging.From(ctx).Debug("Running company structure query", "url", c.storeURL+"/graphql")

	if err := c.gql.Query(ctx, &q, nil); err != nil {
		return nil, goerr.Wrap(ErrGraphQL, "company structure query failed",
			goerr.V(URLKey, c.storeURL+"/graphql"), goerr.V("cause", err.Error()))
	}

	return q.toData(), nil
}

func (c *client) CurrentUser(ctx context.Context) (*Customer, error) {
	var out Customer
	if err := c.get(ctx, "/rest/V1/customers/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) Company(ctx context.Context, companyID string) (*Company, error) {
	var out Company
	if err := c.get(ctx, "/rest/V1/company/"+url.PathEscape(companyID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) CompanyRoles(ctx context.Context, companyID string) ([]Role, error) {
	query := url.Values{}
	query.Set("searchCriteria[filter_groups][0][filters][0][field]", "company_id")
	query.Set("searchCriteria[filter_groups][0][filters][0][value]", companyID)
	query.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "eq")

	var out struct {
		Items []Role `json:"items"`
	}
	if err := c.get(ctx, "/rest/V1/company/role", query, &out); err != nil {
		return nil, err
	}
	logging.From(ctx).Debug("Fetched company roles", "company_id", companyID, "count", len(out.Items))
	return out.Items, nil
}

func (c *client) Hierarchy(ctx context.Context, companyID string) ([]*HierarchyNode, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/rest/V1/hierarchy/"+url.PathEscape(companyID), nil, &raw); err != nil {
		return nil, err
	}
	return decodeHierarchy(raw)
}

// decodeHierarchy accepts either a single root object or an array of roots
func decodeHierarchy(raw json.RawMessage) ([]*HierarchyNode, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var roots []*HierarchyNode
		if err := json.Unmarshal(raw, &roots); err != nil {
			return nil, goerr.Wrap(err, "failed to decode hierarchy list")
		}
		return roots, nil
	}

	var root HierarchyNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, goerr.Wrap(err, "failed to decode hierarchy")
	}
	return []*HierarchyNode{&root}, nil
}

func (c *client) Team(ctx context.Context, teamID string) (*TeamDetail, error) {
	var out TeamDetail
	if err := c.get(ctx, "/rest/V1/team/"+url.PathEscape(teamID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.storeURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V(URLKey, endpoint))
	}
	req.Header.Set("Accept", "application/json")

	logging.From(ctx).Debug("Magento REST request", "url", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "magento request failed", goerr.V(URLKey, endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read response", goerr.V(URLKey, endpoint))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.Wrap(ErrHTTPStatus, "magento returned an error",
			goerr.V(URLKey, endpoint),
			goerr.V(StatusCodeKey, resp.StatusCode),
			goerr.V(BodyKey, truncate(string(body), 512)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V(URLKey, endpoint))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
