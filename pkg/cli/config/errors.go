package config

import "github.com/m-mizutani/goerr/v2"

var (
	ErrMissingCredential = goerr.New("required configuration is missing")
	ErrInvalidSettings   = goerr.New("invalid settings file")
	ErrInvalidDeployment = goerr.New("invalid deployment")
)

// Context keys for error values
const (
	MissingKey    = "missing"
	DeploymentKey = "deployment"
	SettingsKey   = "settings_path"
)
