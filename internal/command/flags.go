// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/config"
)

// NewGlobalFlags constructs the flag set every tfboot command shares. Values
// resolve flag > environment > tfboot.yaml > built-in default.
func NewGlobalFlags() (flags []cli.Flag) {
	flags = []cli.Flag{
		withConfigFileSource(&cli.StringFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "environment name",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TFBOOT_ENV"),
				cli.EnvVar("ENV"),
			),
			Value: config.DefaultEnv,
		}),
		withConfigFileSource(&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "AWS region",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_REGION"),
				cli.EnvVar("AWS_DEFAULT_REGION"),
			),
			Value: config.DefaultRegion,
		}),
		withConfigFileSource(&cli.StringFlag{
			Name:  "target-dir",
			Usage: "directory holding the top-level stack",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TARGET_DIR"),
			),
			Value: ".",
		}),
		withConfigFileSource(&cli.StringFlag{
			Name:  "bucket",
			Usage: "explicit state bucket name, overriding the bootstrap output",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BUCKET_OVERRIDE"),
			),
		}),
		withConfigFileSource(&cli.StringFlag{
			Name:  "app-name",
			Usage: "explicit application name, overriding the properties file",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TFBOOT_APP_NAME"),
			),
		}),
		withConfigFileSource(&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TFBOOT_PROFILE"),
			),
		}),
		&cli.BoolFlag{
			Name:        "force-copy",
			Usage:       "pass -force-copy to terraform init",
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "skip the confirmation prompt on destructive commands",
			HideDefault: true,
		},
	}

	return
}

// withConfigFileSource appends the tfboot.yaml source to the flag's Sources
// chain when a config file exists. Keyed by the flag name.
func withConfigFileSource(flag *cli.StringFlag) *cli.StringFlag {
	path := config.File()
	if path == "" {
		return flag
	}
	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)
	return flag
}
