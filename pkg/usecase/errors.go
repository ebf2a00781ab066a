package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrInvalidStrategy = goerr.New("invalid role strategy")
	ErrNoCompany       = goerr.New("user is not associated with a company")
	ErrNilInput        = goerr.New("nil extraction input")
	ErrVezaNotSet      = goerr.New("veza service is not configured")
)

// Context keys for error values
const (
	StrategyKey  = "strategy"
	CompanyIDKey = "company_id"
	EmailKey     = "email"
	RoleIDKey    = "role_id"
	TeamIDKey    = "team_id"
	ProviderKey  = "provider"
)
