// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/meta"
)

// planCommandAction resolves the backend, initializes, and plans the target
// stack.
func planCommandAction(ctx context.Context, cmd *cli.Command) error {
	o, err := resolveOrchestrator(ctx, cmd)
	if err != nil {
		return err
	}
	if err := o.EnsureBackend(ctx); err != nil {
		return err
	}
	if err := o.InitTarget(ctx); err != nil {
		return err
	}
	return o.Plan(ctx)
}

// planCommandBuilder constructs the cli.Command for "plan".
func planCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "plan the target stack",
		UsageText: "tfboot plan [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: planCommandAction,
	}
}
