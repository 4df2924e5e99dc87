// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	awsx "github.com/tfboot/tfboot/internal/aws"
	"github.com/tfboot/tfboot/internal/backend"
	"github.com/tfboot/tfboot/internal/bucket"
	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/identity"
	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/meta"
	"github.com/tfboot/tfboot/internal/tfexec"
	"github.com/tfboot/tfboot/internal/util"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// SettingsFromCmd snapshots the resolved flag values into a Settings struct.
// The target directory is validated and made absolute here; a bad directory
// is a configuration error.
func SettingsFromCmd(cmd *cli.Command) (config.Settings, error) {
	targetDir, err := util.ParseTargetDir(cmd.String("target-dir"))
	if err != nil {
		return config.Settings{}, &identity.ConfigError{
			Msg: fmt.Sprintf("invalid target directory %q", cmd.String("target-dir")),
			Err: err,
		}
	}

	s := config.Settings{
		Env:            cmd.String("env"),
		Region:         cmd.String("region"),
		TargetDir:      targetDir,
		BucketOverride: cmd.String("bucket"),
		AppName:        cmd.String("app-name"),
		ForceCopy:      cmd.Bool("force-copy"),
		Force:          cmd.Bool("force"),
		Profile:        cmd.String("profile"),
	}
	log.Debugf("settings: env=%s, region=%s, targetDir=%s", s.Env, s.Region, s.TargetDir)
	return s, nil
}

// NewOrchestrator constructs the AWS clients once and wires them, the bucket
// manager and the terraform runner into an orchestrator. A failure to load
// AWS config is a configuration error: nothing has been touched yet.
func NewOrchestrator(ctx context.Context, settings config.Settings) (*backend.Orchestrator, error) {
	var cfgOpts []awsx.Option
	if settings.Region != "" {
		cfgOpts = append(cfgOpts, awsx.WithRegion(settings.Region))
	}
	if settings.Profile != "" {
		cfgOpts = append(cfgOpts, awsx.WithProfile(settings.Profile))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, &identity.ConfigError{Msg: "failed to load AWS config", Err: err}
	}

	return backend.New(
		settings,
		awsx.NewSTS(cfg),
		awsx.NewSSM(cfg),
		bucket.New(awsx.NewS3(cfg), settings.Region),
		tfexec.NewExec(),
	), nil
}

// resolveOrchestrator is the shared preamble of every cloud-touching command:
// settings, clients, identity.
func resolveOrchestrator(ctx context.Context, cmd *cli.Command) (*backend.Orchestrator, error) {
	settings, err := SettingsFromCmd(cmd)
	if err != nil {
		return nil, err
	}
	o, err := NewOrchestrator(ctx, settings)
	if err != nil {
		return nil, err
	}
	if err := o.Resolve(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
