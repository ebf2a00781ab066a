package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
)

var (
	headColor  = color.New(color.FgCyan, color.Bold)
	keyColor   = color.New(color.FgHiWhite)
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	noticeText = color.New(color.FgYellow)
)

func printSummary(w io.Writer, result *usecase.RunResult) {
	if result == nil {
		return
	}

	_, _ = headColor.Fprintf(w, "\n=== %s ===\n", result.Connector)
	line := func(key string, v any) {
		_, _ = keyColor.Fprintf(w, "  %-18s", key)
		_, _ = fmt.Fprintf(w, " %v\n", v)
	}

	line("run id", result.RunID)
	if s := result.Summary; s != nil {
		line("company", s.Company)
		line("users", s.Users)
		line("teams", s.Teams)
		line("roles", s.Roles)
		if s.UserRoleStrategy != "" {
			line("role strategy", s.UserRoleStrategy)
		}
		if r := s.Relationships; r != nil {
			line("user -> company", r.UserCompany)
			line("user -> team", r.UserTeam)
			line("user -> role", r.UserRole)
			line("role -> permission", r.RolePermission)
			line("team -> company", r.TeamCompany)
			line("reports_to", r.ReportsTo)
			if r.Failed > 0 {
				_, _ = noticeText.Fprintf(w, "  %d relationship(s) could not be wired\n", r.Failed)
			}
		}
	}
	if result.OutputDir != "" {
		line("output", result.OutputDir)
	}
	if result.JSONPath != "" {
		line("payload", result.JSONPath)
	}

	if pf := result.Preflight; pf != nil {
		for _, c := range pf.Conflicts {
			_, _ = noticeText.Fprintf(w, "  provider %s (%s): %s\n", c.ProviderName, c.ExistingID, c.Reason)
		}
	}
	if push := result.VezaResponse; push != nil {
		line("provider", fmt.Sprintf("%s (%s)", push.ProviderName, push.ProviderID))
		line("data source", push.DataSourceID)
	} else if result.Success {
		_, _ = noticeText.Fprintln(w, "  dry run: payload was not pushed to Veza")
	}

	if result.Success {
		_, _ = okColor.Fprintln(w, "  SUCCESS")
		return
	}
	_, _ = failColor.Fprintf(w, "  FAILED: %s\n", result.Error)
}
