package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/interfaces"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model/oaa"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

// Output file names written into each run folder
const (
	PayloadFile = "oaa_payload.json"
	ResultsFile = "extraction_results.json"
)

// Summary counts what a run extracted
type Summary struct {
	Company          string             `json:"company"`
	Users            int                `json:"users"`
	Teams            int                `json:"teams"`
	Roles            int                `json:"roles"`
	UserRoleStrategy string             `json:"user_role_strategy,omitempty"`
	Relationships    *RelationshipStats `json:"relationships,omitempty"`
}

// RunResult is the run metadata saved as extraction_results.json
type RunResult struct {
	RunID        string           `json:"run_id"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  time.Time        `json:"completed_at"`
	Connector    string           `json:"connector"`
	Config       map[string]any   `json:"config"`
	Success      bool             `json:"success"`
	Summary      *Summary         `json:"summary,omitempty"`
	OutputDir    string           `json:"output_dir,omitempty"`
	JSONPath     string           `json:"json_path,omitempty"`
	ProviderName string           `json:"provider_name,omitempty"`
	Preflight    *PreflightResult `json:"preflight,omitempty"`
	VezaResponse *PushResult      `json:"veza_response,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// Pipeline runs one extraction for a connector profile
type Pipeline struct {
	profile        model.ConnectorProfile
	storeURL       string
	magento        magento.Service
	output         interfaces.OutputRepository
	publisher      *Publisher
	roleGap        *RoleGapHandler
	providerName   string
	saveJSON       bool
	restSupplement bool
	push           bool
	now            func() time.Time
}

type Option func(*Pipeline)

// WithPublisher sets the Veza publisher used by preflight and push
func WithPublisher(p *Publisher) Option {
	return func(x *Pipeline) {
		x.publisher = p
	}
}

// WithPush enables pushing to Veza. Without it the run is a dry run.
func WithPush(enabled bool) Option {
	return func(x *Pipeline) {
		x.push = enabled
	}
}

func WithSaveJSON(enabled bool) Option {
	return func(x *Pipeline) {
		x.saveJSON = enabled
	}
}

// WithRESTSupplement toggles fetching role permissions over REST on GraphQL runs
func WithRESTSupplement(enabled bool) Option {
	return func(x *Pipeline) {
		x.restSupplement = enabled
	}
}

func WithRoleGapHandler(h *RoleGapHandler) Option {
	return func(x *Pipeline) {
		x.roleGap = h
	}
}

// WithProviderName overrides the provider name of the profile
func WithProviderName(name string) Option {
	return func(x *Pipeline) {
		if name != "" {
			x.providerName = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(x *Pipeline) {
		x.now = now
	}
}

// NewPipeline creates a pipeline. Defaults: save JSON, REST supplement on,
// default_role strategy, dry run.
func NewPipeline(profile model.ConnectorProfile, storeURL string, svc magento.Service, output interfaces.OutputRepository, opts ...Option) *Pipeline {
	x := &Pipeline{
		profile:        profile,
		storeURL:       storeURL,
		magento:        svc,
		output:         output,
		providerName:   profile.ProviderName,
		saveJSON:       true,
		restSupplement: true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.roleGap == nil {
		x.roleGap = &RoleGapHandler{strategy: types.RoleStrategyDefaultRole}
	}
	return x
}

func (x *Pipeline) config() map[string]any {
	cfg := map[string]any{
		"store_url":  x.storeURL,
		"deployment": x.profile.Deployment.String(),
		"api":        x.profile.API.String(),
		"dry_run":    !x.push,
		"save_json":  x.saveJSON,
	}
	switch x.profile.API {
	case types.APIGraphQL:
		cfg["use_rest_supplement"] = x.restSupplement
	case types.APIREST:
		cfg["user_role_strategy"] = x.roleGap.Strategy().String()
	}
	return cfg
}

// Run executes the pipeline. The returned result is always non-nil and is
// saved into the run folder whenever the folder was created.
func (x *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: x.now().UTC(),
		Connector: "magento-" + x.profile.Name(),
		Config:    x.config(),
	}
	ctx = logging.With(ctx, logging.From(ctx).With("run_id", result.RunID, "connector", result.Connector))

	err := x.run(ctx, result)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Success = true
	}
	result.CompletedAt = x.now().UTC()

	if result.OutputDir != "" {
		if _, werr := x.output.WriteJSON(ctx, result.OutputDir, ResultsFile, result); werr != nil {
			logging.From(ctx).Warn("failed to save run results", "error", werr)
		}
	}
	return result, err
}

func (x *Pipeline) run(ctx context.Context, result *RunResult) error {
	logger := logging.From(ctx)

	entities, err := x.extract(ctx)
	if err != nil {
		return err
	}
	logger.Info("extracted entities",
		"company", entities.Company.Name,
		"users", len(entities.Users),
		"teams", len(entities.Teams),
		"roles", len(entities.Roles),
	)

	summary := &Summary{
		Company: entities.Company.Name,
		Users:   len(entities.Users),
		Teams:   len(entities.Teams),
		Roles:   len(entities.Roles),
	}
	if x.profile.API == types.APIREST {
		summary.UserRoleStrategy = x.roleGap.Strategy().String()
	}

	app, err := BuildApplication(ctx, x.profile, x.storeURL, entities, x.now())
	if err != nil {
		return err
	}
	logger.Info("built application", "name", app.Name)

	stats, err := BuildRelationships(ctx, app, entities)
	if err != nil {
		return err
	}
	summary.Relationships = stats

	payload := app.Payload()

	dir, err := x.output.CreateRunDir(ctx, x.providerName, x.now())
	if err != nil {
		return goerr.Wrap(err, "failed to create output folder")
	}
	result.OutputDir = dir

	if x.saveJSON {
		path, err := x.output.WriteJSON(ctx, dir, PayloadFile, payload)
		if err != nil {
			return goerr.Wrap(err, "failed to save payload")
		}
		result.JSONPath = path
		logger.Info("saved OAA payload", "path", path)
	}

	if x.push {
		if err := x.publish(ctx, result, entities, payload); err != nil {
			return err
		}
	} else {
		logger.Info("dry run, skipping Veza push")
	}

	result.Summary = summary
	return nil
}

func (x *Pipeline) publish(ctx context.Context, result *RunResult, entities *model.Entities, payload *oaa.Payload) error {
	if x.publisher == nil {
		return goerr.Wrap(ErrVezaNotSet, "push requested without Veza credentials")
	}
	pushed, err := x.publisher.Push(ctx, x.providerName, entities.Company.Name, payload)
	if err != nil {
		return err
	}
	result.ProviderName = pushed.ProviderName
	result.VezaResponse = pushed
	result.Preflight = pushed.Preflight
	return nil
}

func (x *Pipeline) extract(ctx context.Context) (*model.Entities, error) {
	switch x.profile.API {
	case types.APIGraphQL:
		return x.extractGraphQL(ctx)
	case types.APIREST:
		return x.extractREST(ctx)
	}
	return nil, goerr.Wrap(model.ErrUnknownConnector, "unsupported api", goerr.V("api", x.profile.API))
}

func (x *Pipeline) extractGraphQL(ctx context.Context) (*model.Entities, error) {
	data, err := x.magento.FetchCompany(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "graphql extraction failed")
	}

	entities, err := ExtractGraphQL(ctx, data)
	if err != nil {
		return nil, err
	}

	if x.restSupplement && entities.Company.ID != "" {
		roles, err := x.magento.CompanyRoles(ctx, entities.Company.ID)
		if err != nil {
			logging.From(ctx).Warn("REST role supplement failed, continuing without explicit permission data",
				"company_id", entities.Company.ID, "error", err)
		} else {
			n := MergeRolePermissions(ctx, entities, roles)
			logging.From(ctx).Info("fetched roles via REST", "roles", len(roles), "merged", n)
		}
	}
	return entities, nil
}

func (x *Pipeline) extractREST(ctx context.Context) (*model.Entities, error) {
	data, err := FetchREST(ctx, x.magento)
	if err != nil {
		return nil, err
	}

	entities, err := ExtractREST(ctx, data)
	if err != nil {
		return nil, err
	}

	x.roleGap.Resolve(ctx, entities.Users, entities.Roles)
	return entities, nil
}

// Cleanup applies the output retention policy
func Cleanup(ctx context.Context, output interfaces.OutputRepository, now time.Time) (int, error) {
	removed, err := output.Cleanup(ctx, now)
	if err != nil {
		return removed, goerr.Wrap(err, "failed to clean up output folders")
	}
	if removed > 0 {
		logging.From(ctx).Info("removed expired output folders", "count", removed)
	}
	return removed, nil
}
