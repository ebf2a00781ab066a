package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

const runDirTimeLayout = "20060102_1504"

var runDirPattern = regexp.MustCompile(`^(\d{8})_(\d{4})_.*$`)

// Output stores run artifacts as {base}/YYYYMMDD_HHMM_{provider}/
type Output struct {
	baseDir       string
	retentionDays int
}

// NewOutput creates an Output. retentionDays <= 0 disables cleanup.
func NewOutput(baseDir string, retentionDays int) *Output {
	return &Output{baseDir: baseDir, retentionDays: retentionDays}
}

// RunDirName returns the folder name of a run of providerName started at `at`
func RunDirName(providerName string, at time.Time) string {
	return at.Format(runDirTimeLayout) + "_" + sanitize(providerName)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

func (x *Output) CreateRunDir(ctx context.Context, providerName string, at time.Time) (string, error) {
	dir := filepath.Join(x.baseDir, RunDirName(providerName, at))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}
	logging.From(ctx).Debug("Created output directory", "dir", dir)
	return dir, nil
}

func (x *Output) WriteJSON(ctx context.Context, dir, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal output", goerr.V("name", name))
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", goerr.Wrap(err, "failed to write output", goerr.V("path", path))
	}
	logging.From(ctx).Debug("Wrote output file", "path", path, "bytes", len(data))
	return path, nil
}

// Cleanup removes run folders whose timestamp is older than the retention period
func (x *Output) Cleanup(ctx context.Context, now time.Time) (int, error) {
	if x.retentionDays <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(x.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, goerr.Wrap(err, "failed to list output directory", goerr.V("dir", x.baseDir))
	}

	logger := logging.From(ctx)
	cutoff := now.AddDate(0, 0, -x.retentionDays)
	deleted := 0

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := runDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		created, err := time.ParseInLocation(runDirTimeLayout, m[1]+"_"+m[2], now.Location())
		if err != nil {
			logger.Warn("Skipping output folder with invalid timestamp", "folder", entry.Name(), "error", err)
			continue
		}
		if !created.Before(cutoff) {
			continue
		}

		path := filepath.Join(x.baseDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to delete output folder", "folder", path, "error", err)
			continue
		}
		deleted++
		logger.Debug("Deleted old output folder", "folder", entry.Name())
	}

	return deleted, nil
}
