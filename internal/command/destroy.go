// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/meta"
)

// destroyCommandAction destroys the top-level stack after confirmation. The
// bootstrap stack and its bucket are left alone; see destroy-all.
func destroyCommandAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := SettingsFromCmd(cmd)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Destroy the top-level stack in %s? This will permanently delete resources.", settings.TargetDir)
	if !Confirm(prompt, settings.Force) {
		log.Infof("Aborted top-level destroy.")
		return nil
	}

	o, err := NewOrchestrator(ctx, settings)
	if err != nil {
		return err
	}
	if err := o.Resolve(ctx); err != nil {
		return err
	}
	return o.DestroyTopLevel(ctx)
}

// destroyCommandBuilder constructs the cli.Command for "destroy".
func destroyCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "destroy",
		Usage:     "destroy the target stack",
		UsageText: "tfboot destroy [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: destroyCommandAction,
	}
}
