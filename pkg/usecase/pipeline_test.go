package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model/oaa"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/repository/memory"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
)

var runTime = time.Date(2026, 6, 7, 8, 9, 0, 0, time.UTC)

func fixedClock() time.Time { return runTime }

func graphqlMock() *mockMagento {
	return &mockMagento{
		fetchCompany: func(ctx context.Context) (*magento.GraphQLData, error) {
			return sampleGraphQLData(), nil
		},
		companyRoles: func(ctx context.Context, companyID string) ([]magento.Role, error) {
			return []magento.Role{
				{ID: "1", Permissions: []magento.Permission{
					{ResourceID: "Magento_Company::index", Permission: "allow"},
					{ResourceID: "Magento_Company::users_edit", Permission: "allow"},
				}},
			}, nil
		},
	}
}

func restMock() *mockMagento {
	return &mockMagento{
		currentUser: func(ctx context.Context) (*magento.Customer, error) {
			return restMe(), nil
		},
		company: func(ctx context.Context, id string) (*magento.Company, error) {
			return restCompany(), nil
		},
		companyRoles: func(ctx context.Context, companyID string) ([]magento.Role, error) {
			return restRoles(), nil
		},
		hierarchy: func(ctx context.Context, companyID string) ([]*magento.HierarchyNode, error) {
			return restTree(), nil
		},
		team: func(ctx context.Context, id string) (*magento.TeamDetail, error) {
			return &magento.TeamDetail{ID: magento.ID(id), Name: "Engineering"}, nil
		},
	}
}

func profileOf(t *testing.T, api types.API, deployment types.Deployment) model.ConnectorProfile {
	t.Helper()
	p, err := model.LookupConnector(api, deployment)
	gt.NoError(t, err).Required()
	return p
}

func loadPayload(t *testing.T, out *memory.Output, path string) *oaa.Payload {
	t.Helper()
	data, ok := out.File(path)
	gt.Bool(t, ok).True()
	var payload oaa.Payload
	gt.NoError(t, json.Unmarshal(data, &payload)).Required()
	return &payload
}

func loadResults(t *testing.T, out *memory.Output, dir string) map[string]any {
	t.Helper()
	data, ok := out.File(dir + "/" + usecase.ResultsFile)
	gt.Bool(t, ok).True()
	var results map[string]any
	gt.NoError(t, json.Unmarshal(data, &results)).Required()
	return results
}

func TestPipelineGraphQLDryRun(t *testing.T) {
	out := memory.NewOutput()
	p := usecase.NewPipeline(
		profileOf(t, types.APIGraphQL, types.DeploymentOnPrem),
		"https://shop.acme.com", graphqlMock(), out,
		usecase.WithClock(fixedClock),
	)

	result, err := p.Run(context.Background())
	gt.NoError(t, err).Required()

	gt.Bool(t, result.Success).True()
	gt.Value(t, result.Connector).Equal("magento-onprem-graphql")
	gt.Value(t, result.OutputDir).Equal("20260607_0809_Magento_OnPrem_GraphQL")
	gt.Value(t, result.JSONPath).Equal("20260607_0809_Magento_OnPrem_GraphQL/oaa_payload.json")
	gt.Value(t, result.Config["dry_run"]).Equal(true)
	gt.Value(t, result.Config["use_rest_supplement"]).Equal(true)
	gt.Value(t, result.VezaResponse).Nil()

	gt.Value(t, result.Summary).NotNil().Required()
	gt.Value(t, result.Summary.Company).Equal("Acme Corp")
	gt.Value(t, result.Summary.Users).Equal(3)
	gt.Value(t, result.Summary.Teams).Equal(1)
	gt.Value(t, result.Summary.Roles).Equal(2)
	gt.Value(t, result.Summary.Relationships.RolePermission).Equal(2)

	payload := loadPayload(t, out, result.JSONPath)
	gt.Array(t, payload.Applications).Length(1).Required()
	gt.Value(t, payload.Applications[0].Name).Equal("magento_onprem_graphql_1")
	gt.Array(t, payload.Applications[0].LocalUsers).Length(3)

	results := loadResults(t, out, result.OutputDir)
	gt.Value(t, results["success"]).Equal(true)
	gt.Value(t, results["run_id"]).Equal(result.RunID)
}

func TestPipelineGraphQLSupplementFailure(t *testing.T) {
	svc := graphqlMock()
	svc.companyRoles = func(ctx context.Context, companyID string) ([]magento.Role, error) {
		return nil, goerr.New("forbidden")
	}

	p := usecase.NewPipeline(
		profileOf(t, types.APIGraphQL, types.DeploymentCloud),
		"https://shop.acme.com", svc, memory.NewOutput(),
		usecase.WithClock(fixedClock),
	)
	result, err := p.Run(context.Background())
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Success).True()
	gt.Value(t, result.Summary.Relationships.RolePermission).Equal(0)
}

func TestPipelineGraphQLWithoutSupplement(t *testing.T) {
	svc := graphqlMock()
	var called bool
	svc.companyRoles = func(ctx context.Context, companyID string) ([]magento.Role, error) {
		called = true
		return nil, nil
	}

	p := usecase.NewPipeline(
		profileOf(t, types.APIGraphQL, types.DeploymentOnPrem),
		"", svc, memory.NewOutput(),
		usecase.WithRESTSupplement(false),
		usecase.WithSaveJSON(false),
		usecase.WithClock(fixedClock),
	)
	result, err := p.Run(context.Background())
	gt.NoError(t, err).Required()
	gt.Bool(t, called).False()
	gt.Value(t, result.JSONPath).Equal("")
	gt.Value(t, result.Config["use_rest_supplement"]).Equal(false)
}

func TestPipelineRESTWithStrategy(t *testing.T) {
	h, err := usecase.NewRoleGapHandler(types.RoleStrategyDefaultRole, "")
	gt.NoError(t, err).Required()

	out := memory.NewOutput()
	p := usecase.NewPipeline(
		profileOf(t, types.APIREST, types.DeploymentOnPrem),
		"https://shop.acme.com", restMock(), out,
		usecase.WithRoleGapHandler(h),
		usecase.WithClock(fixedClock),
	)

	result, err := p.Run(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, result.Summary.UserRoleStrategy).Equal("default_role")
	gt.Value(t, result.Config["user_role_strategy"]).Equal("default_role")
	gt.Value(t, result.Summary.Users).Equal(3)
	gt.Value(t, result.Summary.Relationships.UserRole).Equal(3)

	payload := loadPayload(t, out, result.JSONPath)
	gt.Array(t, payload.IdentityToPermissions).Length(3)
}

func TestPipelinePush(t *testing.T) {
	fake := newFakeVeza()
	registry := memory.NewRegistry()
	publisher := usecase.NewPublisher(fake, registry, "qa")

	p := usecase.NewPipeline(
		profileOf(t, types.APIGraphQL, types.DeploymentOnPrem),
		"https://shop.acme.com", graphqlMock(), memory.NewOutput(),
		usecase.WithPublisher(publisher),
		usecase.WithPush(true),
		usecase.WithClock(fixedClock),
	)

	result, err := p.Run(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, result.ProviderName).Equal("qa_Magento_OnPrem_GraphQL")
	gt.Value(t, result.VezaResponse).NotNil().Required()
	gt.Value(t, result.VezaResponse.DataSourceID).NotEqual("")
	gt.Value(t, result.Preflight).NotNil()
	gt.Array(t, fake.pushes).Length(1).Required()

	_, ok := fake.pushes[0].payload.(*oaa.Payload)
	gt.Bool(t, ok).True()
}

func TestPipelinePushWithoutPublisher(t *testing.T) {
	p := usecase.NewPipeline(
		profileOf(t, types.APIGraphQL, types.DeploymentOnPrem),
		"", graphqlMock(), memory.NewOutput(),
		usecase.WithPush(true),
		usecase.WithClock(fixedClock),
	)

	result, err := p.Run(context.Background())
	gt.Error(t, err).Is(usecase.ErrVezaNotSet)
	gt.Bool(t, result.Success).False()
	gt.Value(t, result.Summary).Nil()
}

func TestPipelineExtractionFailure(t *testing.T) {
	out := memory.NewOutput()
	svc := &mockMagento{}

	p := usecase.NewPipeline(
		profileOf(t, types.APIREST, types.DeploymentCloud),
		"", svc, out,
		usecase.WithClock(fixedClock),
	)

	result, err := p.Run(context.Background())
	gt.Value(t, err).NotNil()
	gt.Bool(t, result.Success).False()
	gt.String(t, result.Error).Contains("not mocked")
	gt.Value(t, result.OutputDir).Equal("")
	gt.Array(t, out.Dirs()).Length(0)
}

func TestPipelineProviderOverride(t *testing.T) {
	p := usecase.NewPipeline(
		profileOf(t, types.APIGraphQL, types.DeploymentOnPrem),
		"", graphqlMock(), memory.NewOutput(),
		usecase.WithProviderName("Acme_B2B"),
		usecase.WithClock(fixedClock),
	)

	result, err := p.Run(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, result.OutputDir).Equal("20260607_0809_Acme_B2B")
}

func TestCleanup(t *testing.T) {
	out := memory.NewOutput()
	n, err := usecase.Cleanup(context.Background(), out, runTime)
	gt.NoError(t, err).Required()
	gt.Value(t, n).Equal(0)
	gt.Value(t, out.Cleanups()).Equal(1)
}
