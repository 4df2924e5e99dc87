// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/meta"
)

// applyCommandAction resolves the backend, initializes, and applies the
// target stack non-interactively.
func applyCommandAction(ctx context.Context, cmd *cli.Command) error {
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
	return o.Apply(ctx)
}

// applyCommandBuilder constructs the cli.Command for "apply".
func applyCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "apply the target stack",
		UsageText: "tfboot apply [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: applyCommandAction,
	}
}
