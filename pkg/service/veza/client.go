package veza

import (
	"bytes"
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
)

const providersPath = "/api/v1/providers/custom"

type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Option func(*client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// New creates a Veza Service. A scheme-less URL is treated as https.
func New(vezaURL, apiKey string, opts ...Option) (Service, error) {
	if vezaURL == "" || apiKey == "" {
		return nil, goerr.Wrap(ErrNotConfigured, "cannot create veza client")
	}
	if !strings.HasPrefix(vezaURL, "http://") && !strings.HasPrefix(vezaURL, "https://") {
		vezaURL = "https://" + vezaURL
	}

	c := &client{
		baseURL: strings.TrimRight(vezaURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) URL() string {
	return c.baseURL
}

func (c *client) GetProvider(ctx context.Context, name string) (*Provider, error) {
	query := url.Values{}
	query.Set("filter", `name eq "`+name+`"`)

	var out valuesEnvelope[Provider]
	if err := c.do(ctx, http.MethodGet, providersPath+"?"+query.Encode(), nil, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to look up provider", goerr.V(ProviderKey, name))
	}
	for i := range out.Values {
		if out.Values[i].Name == name {
			return &out.Values[i], nil
		}
	}
	return nil, nil
}

func (c *client) CreateProvider(ctx context.Context, name string) (*Provider, error) {
	req := createProviderRequest{Name: name, CustomTemplate: "application"}
	var out valueEnvelope[Provider]
	if err := c.do(ctx, http.MethodPost, providersPath, req, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to create provider", goerr.V(ProviderKey, name))
	}
	logging.From(ctx).Info("Created Veza provider", "name", name, "id", out.Value.ID)
	return &out.Value, nil
}

func (c *client) ListDataSources(ctx context.Context, providerID string) ([]DataSource, error) {
	var out valuesEnvelope[DataSource]
	if err := c.do(ctx, http.MethodGet, providersPath+"/"+url.PathEscape(providerID)+"/datasources", nil, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to list data sources", goerr.V("provider_id", providerID))
	}
	return out.Values, nil
}

func (c *client) CreateDataSource(ctx context.Context, providerID, name string) (*DataSource, error) {
	req := createDataSourceRequest{ID: providerID, Name: name}
	var out valueEnvelope[DataSource]
	if err := c.do(ctx, http.MethodPost, providersPath+"/"+url.PathEscape(providerID)+"/datasources", req, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to create data source",
			goerr.V("provider_id", providerID), goerr.V("name", name))
	}
	return &out.Value, nil
}

func (c *client) Push(ctx context.Context, providerID, dataSourceID string, payload any) (*PushResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal payload")
	}

	req := pushRequest{ID: providerID, DataSourceID: dataSourceID, JSONData: string(data)}
	path := providersPath + "/" + url.PathEscape(providerID) + "/datasources/" + url.PathEscape(dataSourceID) + ":push"

	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, path, req, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to push payload",
			goerr.V("provider_id", providerID), goerr.V("data_source_id", dataSourceID))
	}

	resp := &PushResponse{Raw: raw}
	if ws, ok := raw["warnings"].([]any); ok {
		for _, w := range ws {
			if m, ok := w.(map[string]any); ok {
				msg, _ := m["message"].(string)
				resp.Warnings = append(resp.Warnings, Warning{Message: msg})
			}
		}
	}
	return resp, nil
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V(URLKey, endpoint))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "veza request failed", goerr.V(URLKey, endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read veza response", goerr.V(URLKey, endpoint))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.Wrap(ErrAPI, "veza returned an error",
			goerr.V(URLKey, endpoint),
			goerr.V(StatusCodeKey, resp.StatusCode),
			goerr.V(BodyKey, string(respBody)))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return goerr.Wrap(err, "failed to decode veza response", goerr.V(URLKey, endpoint))
	}
	return nil
}
