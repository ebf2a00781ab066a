package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

type permissionView struct {
	ResourceID    string `json:"resource_id"`
	DisplayName   string `json:"display_name"`
	Category      string `json:"category"`
	OAAPermission string `json:"oaa_permission"`
}

func cmdPermissions(before beforeFunc) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:   "permissions",
		Usage:  "Print the Magento B2B ACL catalog and its OAA permission mapping",
		Before: before,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			w := writerOf(c)

			var views []permissionView
			for _, p := range model.ACLCatalog() {
				views = append(views, permissionView{
					ResourceID:    p.ResourceID,
					DisplayName:   p.DisplayName,
					Category:      string(p.Category),
					OAAPermission: p.Category.OAAPermission().String(),
				})
			}

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(views); err != nil {
					return goerr.Wrap(err, "failed to encode permissions")
				}
				return nil
			}

			var category string
			for _, v := range views {
				if v.Category != category {
					category = v.Category
					_, _ = headColor.Fprintf(w, "\n[%s]\n", category)
				}
				_, _ = keyColor.Fprintf(w, "  %-62s", v.ResourceID)
				_, _ = fmt.Fprintf(w, " %-26s %s\n", v.DisplayName, v.OAAPermission)
			}
			return nil
		},
	}
}
