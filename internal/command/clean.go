// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/backend"
	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/meta"
)

// cleanCommandAction removes local Terraform artifacts from the target
// directory. Requires no identity resolution and no cloud access.
func cleanCommandAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := SettingsFromCmd(cmd)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Clean Terraform files and directories from %s? This will remove .terraform folders, .terraform.lock.hcl, backend.tf, and terraform state files.", settings.TargetDir)
	if !Confirm(prompt, settings.Force) {
		log.Infof("Aborted clean.")
		return nil
	}

	backend.Clean(settings.TargetDir)
	return nil
}

// cleanCommandBuilder constructs the cli.Command for "clean".
func cleanCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "remove local Terraform artifacts from the target directory",
		UsageText: "tfboot clean [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags(),
		Action: cleanCommandAction,
	}
}
