// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/meta"
)

// bootstrapCommandAction provisions the bootstrap stack unconditionally and
// persists the resulting backend descriptor. Safe to re-run.
func bootstrapCommandAction(ctx context.Context, cmd *cli.Command) error {
	o, err := resolveOrchestrator(ctx, cmd)
	if err != nil {
		return err
	}
	if err := o.Bootstrap(ctx); err != nil {
		return err
	}
	log.Infof("Bootstrap completed. You can now run tfboot init/plan/apply in %s using the SSM-provided backend.", o.Settings().TargetDir)
	return nil
}

// bootstrapCommandBuilder constructs the cli.Command for "bootstrap".
func bootstrapCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "bootstrap",
		Usage:     "create the remote-state bucket and store its backend configuration",
		UsageText: "tfboot bootstrap [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: bootstrapCommandAction,
	}
}
