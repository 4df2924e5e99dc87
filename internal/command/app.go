// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/meta"
)

// InitApp assembles the tfboot CLI: one subcommand per lifecycle operation,
// each carrying the shared meta in its Metadata map.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	meta := meta.Meta{
		Args:        args,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "tfboot",
		Usage: "Terraform remote-state backend bootstrap",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "tfboot version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		bootstrapCommandBuilder(meta),
		initCommandBuilder(meta),
		planCommandBuilder(meta),
		applyCommandBuilder(meta),
		destroyCommandBuilder(meta),
		destroyAllCommandBuilder(meta),
		cleanCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
