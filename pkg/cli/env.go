package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

const (
	envFlagName    = "env"
	defaultEnvFile = ".env"
)

// envFileFromArgs finds --env <path> or --env=<path>. explicit is false when the default is used.
func envFileFromArgs(args []string) (path string, explicit bool) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		for _, prefix := range []string{"--" + envFlagName, "-" + envFlagName} {
			if arg == prefix && i+1 < len(args) {
				return args[i+1], true
			}
			if v, ok := strings.CutPrefix(arg, prefix+"="); ok {
				return v, true
			}
		}
	}
	return defaultEnvFile, false
}

// flagGiven reports whether --name or --name=<value> appears on the command line
func flagGiven(args []string, name string) bool {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		for _, prefix := range []string{"--" + name, "-" + name} {
			if arg == prefix || strings.HasPrefix(arg, prefix+"=") {
				return true
			}
		}
	}
	return false
}

// loadEnvFile loads the env file into the process environment without
// overriding variables that are already set. A missing default file is ignored.
func loadEnvFile(args []string) error {
	path, explicit := envFileFromArgs(args)
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return goerr.Wrap(err, "env file is not readable", goerr.V("path", path))
	}

	if err := godotenv.Load(path); err != nil {
		return goerr.Wrap(err, "failed to parse env file", goerr.V("path", path))
	}
	return nil
}
