// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/meta"
)

// destroyAllCommandAction performs the full teardown: top-level stack first,
// then the bootstrap stack, its SSM parameter, and the state bucket.
func destroyAllCommandAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := SettingsFromCmd(cmd)
	if err != nil {
		return err
	}

	prompt := "Destroy the top-level stack and bootstrap S3 bucket? This will permanently delete resources and remove the backend SSM entry."
	if !Confirm(prompt, settings.Force) {
		log.Infof("Aborted destroy-all.")
		return nil
	}

	o, err := NewOrchestrator(ctx, settings)
	if err != nil {
		return err
	}
	if err := o.Resolve(ctx); err != nil {
		return err
	}
	if err := o.DestroyTopLevel(ctx); err != nil {
		return err
	}
	return o.DestroyBootstrap(ctx)
}

// destroyAllCommandBuilder constructs the cli.Command for "destroy-all".
func destroyAllCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "destroy-all",
		Usage:     "destroy the target stack, the bootstrap stack, and the state bucket",
		UsageText: "tfboot destroy-all [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: destroyAllCommandAction,
	}
}
