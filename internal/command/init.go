// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/meta"
)

// initCommandAction resolves (or creates) the backend and initializes the
// target stack against it.
func initCommandAction(ctx context.Context, cmd *cli.Command) error {
	o, err := resolveOrchestrator(ctx, cmd)
	if err != nil {
		return err
	}
	if err := o.EnsureBackend(ctx); err != nil {
		return err
	}
	return o.InitTarget(ctx)
}

// initCommandBuilder constructs the cli.Command for "init".
func initCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "initialize the target stack with the stored backend",
		UsageText: "tfboot init [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: initCommandAction,
	}
}
