package usecase_test

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/service/veza"
)

var errNotMocked = goerr.New("not mocked")

type mockMagento struct {
	fetchCompany func(ctx context.Context) (*magento.GraphQLData, error)
	currentUser  func(ctx context.Context) (*magento.Customer, error)
	company      func(ctx context.Context, id string) (*magento.Company, error)
	companyRoles func(ctx context.Context, companyID string) ([]magento.Role, error)
	hierarchy    func(ctx context.Context, companyID string) ([]*magento.HierarchyNode, error)
	team         func(ctx context.Context, id string) (*magento.TeamDetail, error)
}

func (m *mockMagento) FetchCompany(ctx context.Context) (*magento.GraphQLData, error) {
	if m.fetchCompany == nil {
		return nil, errNotMocked
	}
	return m.fetchCompany(ctx)
}

func (m *mockMagento) CurrentUser(ctx context.Context) (*magento.Customer, error) {
	if m.currentUser == nil {
		return nil, errNotMocked
	}
	return m.currentUser(ctx)
}

func (m *mockMagento) Company(ctx context.Context, id string) (*magento.Company, error) {
	if m.company == nil {
		return nil, errNotMocked
	}
	return m.company(ctx, id)
}

func (m *mockMagento) CompanyRoles(ctx context.Context, companyID string) ([]magento.Role, error) {
	if m.companyRoles == nil {
		return nil, errNotMocked
	}
	return m.companyRoles(ctx, companyID)
}

func (m *mockMagento) Hierarchy(ctx context.Context, companyID string) ([]*magento.HierarchyNode, error) {
	if m.hierarchy == nil {
		return nil, errNotMocked
	}
	return m.hierarchy(ctx, companyID)
}

func (m *mockMagento) Team(ctx context.Context, id string) (*magento.TeamDetail, error) {
	if m.team == nil {
		return nil, errNotMocked
	}
	return m.team(ctx, id)
}

// fakeVeza keeps providers and data sources in memory
type fakeVeza struct {
	providers   map[string]*veza.Provider
	dataSources map[string][]veza.DataSource
	pushes      []fakePush
	nextID      int
	pushErr     error
}

type fakePush struct {
	providerID   string
	dataSourceID string
	payload      any
}

func newFakeVeza() *fakeVeza {
	return &fakeVeza{
		providers:   make(map[string]*veza.Provider),
		dataSources: make(map[string][]veza.DataSource),
	}
}

func (f *fakeVeza) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeVeza) GetProvider(ctx context.Context, name string) (*veza.Provider, error) {
	return f.providers[name], nil
}

func (f *fakeVeza) CreateProvider(ctx context.Context, name string) (*veza.Provider, error) {
	p := &veza.Provider{ID: f.id("prov"), Name: name, CustomTemplate: "application"}
	f.providers[name] = p
	return p, nil
}

func (f *fakeVeza) ListDataSources(ctx context.Context, providerID string) ([]veza.DataSource, error) {
	return f.dataSources[providerID], nil
}

func (f *fakeVeza) CreateDataSource(ctx context.Context, providerID, name string) (*veza.DataSource, error) {
	ds := veza.DataSource{ID: f.id("ds"), Name: name}
	f.dataSources[providerID] = append(f.dataSources[providerID], ds)
	return &ds, nil
}

func (f *fakeVeza) Push(ctx context.Context, providerID, dataSourceID string, payload any) (*veza.PushResponse, error) {
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	f.pushes = append(f.pushes, fakePush{providerID: providerID, dataSourceID: dataSourceID, payload: payload})
	return &veza.PushResponse{}, nil
}

func (f *fakeVeza) URL() string {
	return "https://veza.example.com"
}

func strPtr(s string) *string {
	return &s
}

func intPtr(n int) *int {
	return &n
}
