package veza

import "github.com/m-mizutani/goerr/v2"

var (
	ErrAPI           = goerr.New("veza api error")
	ErrNotConfigured = goerr.New("veza url and api key are required")
)

const (
	URLKey        = "url"
	StatusCodeKey = "status_code"
	BodyKey       = "body"
	ProviderKey   = "provider"
)
