package veza_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/service/veza"
)

type fakeVeza struct {
	providers   map[string]veza.Provider
	dataSources map[string][]veza.DataSource
	pushed      map[string]string
}

func newFakeVeza(t *testing.T) (*fakeVeza, *httptest.Server) {
	t.Helper()
	f := &fakeVeza{
		providers:   map[string]veza.Provider{},
		dataSources: map[string][]veza.DataSource{},
		pushed:      map[string]string{},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer api-key" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/api/v1/providers/custom", func(w http.ResponseWriter, r *http.Request) {
		values := []veza.Provider{}
		for _, p := range f.providers {
			if r.URL.Query().Get("filter") == `name eq "`+p.Name+`"` {
				values = append(values, p)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": values})
	})
	r.Post("/api/v1/providers/custom", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["custom_template"] != "application" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		p := veza.Provider{ID: "p-" + req["name"], Name: req["name"], CustomTemplate: "application"}
		f.providers[p.ID] = p
		_ = json.NewEncoder(w).Encode(map[string]any{"value": p})
	})
	r.Get("/api/v1/providers/custom/{id}/datasources", func(w http.ResponseWriter, r *http.Request) {
		ds := f.dataSources[chi.URLParam(r, "id")]
		if ds == nil {
			ds = []veza.DataSource{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": ds})
	})
	r.Post("/api/v1/providers/custom/{id}/datasources", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		id := chi.URLParam(r, "id")
		ds := veza.DataSource{ID: "ds-" + req["name"], Name: req["name"]}
		f.dataSources[id] = append(f.dataSources[id], ds)
		_ = json.NewEncoder(w).Encode(map[string]any{"value": ds})
	})
	r.Post("/api/v1/providers/custom/{id}/datasources/{ds}", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.pushed[chi.URLParam(r, "ds")] = req["json_data"]
		_, _ = w.Write([]byte(`{"warnings": [{"message": "identity not found"}]}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func TestProviderLifecycle(t *testing.T) {
	f, srv := newFakeVeza(t)
	svc, err := veza.New(srv.URL, "api-key", veza.WithHTTPClient(srv.Client()))
	gt.NoError(t, err).Required()
	ctx := context.Background()

	p, err := svc.GetProvider(ctx, "Magento_OnPrem_REST")
	gt.NoError(t, err).Required()
	gt.Value(t, p).Nil()

	created, err := svc.CreateProvider(ctx, "Magento_OnPrem_REST")
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).Equal("p-Magento_OnPrem_REST")

	p, err = svc.GetProvider(ctx, "Magento_OnPrem_REST")
	gt.NoError(t, err).Required()
	gt.Value(t, p.ID).Equal(created.ID)

	ds, err := svc.CreateDataSource(ctx, created.ID, "Acme")
	gt.NoError(t, err).Required()

	list, err := svc.ListDataSources(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(1)
	gt.Value(t, list[0].ID).Equal(ds.ID)

	resp, err := svc.Push(ctx, created.ID, ds.ID, map[string]any{"applications": []any{}})
	gt.NoError(t, err).Required()
	gt.Array(t, resp.Warnings).Length(1)
	gt.String(t, f.pushed[ds.ID+":push"]).Contains("applications")
}

func TestAPIError(t *testing.T) {
	_, srv := newFakeVeza(t)
	svc, err := veza.New(srv.URL, "wrong-key", veza.WithHTTPClient(srv.Client()))
	gt.NoError(t, err).Required()

	_, err = svc.GetProvider(context.Background(), "x")
	gt.Error(t, err).Is(veza.ErrAPI)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := veza.New("", "key")
	gt.Error(t, err).Is(veza.ErrNotConfigured)

	svc, err := veza.New("acme.vezacloud.com/", "key")
	gt.NoError(t, err).Required()
	gt.Value(t, svc.URL()).Equal("https://acme.vezacloud.com")
}

func TestProviderName(t *testing.T) {
	gt.Value(t, veza.ProviderName("Magento_OnPrem_REST", "")).Equal("Magento_OnPrem_REST")
	gt.Value(t, veza.ProviderName("Magento_OnPrem_REST", "prod")).Equal("prod_Magento_OnPrem_REST")
	gt.Value(t, veza.ProviderName("Acme B2B (EU)", "team a")).Equal("team_a_Acme_B2B__EU_")
}
