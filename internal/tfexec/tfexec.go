// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tfexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tfboot/tfboot/internal/log"
)

// Runner is the contract tfboot has with the provisioning tool. Every call is
// a separate child process run to completion in the given working directory;
// a non-zero exit is an error. No retries.
type Runner interface {
	Init(ctx context.Context, dir string, reconfigure, forceCopy bool) error
	Plan(ctx context.Context, dir, env, region string) error
	Apply(ctx context.Context, dir, env, region string) error
	Destroy(ctx context.Context, dir, env, region string) error
	OutputJSON(ctx context.Context, dir string) ([]byte, error)
}

// Exec invokes the real terraform binary.
type Exec struct {
	// Binary defaults to "terraform"; override for OpenTofu installs.
	Binary string
}

// NewExec returns an Exec honoring the TFBOOT_TF_BIN override.
func NewExec() *Exec {
	bin := os.Getenv("TFBOOT_TF_BIN")
	if bin == "" {
		bin = "terraform"
	}
	return &Exec{Binary: bin}
}

// Init runs terraform init. Reconfigure forces the tool to pick up the freshly
// written backend file instead of any cached configuration.
func (e *Exec) Init(ctx context.Context, dir string, reconfigure, forceCopy bool) error {
	args := []string{"init", "-input=false"}
	if reconfigure {
		args = append(args, "-reconfigure")
	}
	if forceCopy {
		args = append(args, "-force-copy")
	}
	return e.run(ctx, dir, args...)
}

// Plan runs terraform plan with the environment and region stack parameters.
func (e *Exec) Plan(ctx context.Context, dir, env, region string) error {
	return e.run(ctx, dir, append([]string{"plan", "-input=false"}, stackVars(env, region)...)...)
}

// Apply runs a non-interactive, auto-approved terraform apply.
func (e *Exec) Apply(ctx context.Context, dir, env, region string) error {
	return e.run(ctx, dir, append([]string{"apply", "-auto-approve", "-input=false"}, stackVars(env, region)...)...)
}

// Destroy runs a non-interactive, auto-approved terraform destroy.
func (e *Exec) Destroy(ctx context.Context, dir, env, region string) error {
	return e.run(ctx, dir, append([]string{"destroy", "-auto-approve", "-input=false"}, stackVars(env, region)...)...)
}

// OutputJSON captures `terraform output -json` for reading output variables.
func (e *Exec) OutputJSON(ctx context.Context, dir string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.Binary, "output", "-json")
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	log.Infof("CMD: %s output -json", e.Binary)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s output failed: %w", e.Binary, err)
	}
	return stdout.Bytes(), nil
}

// run executes the tool attached to our stdout/stderr so the operator sees
// its progress directly.
func (e *Exec) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	log.Infof("CMD: %s %s", e.Binary, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		log.Errorf("Command failed: %s %s", e.Binary, strings.Join(args, " "))
		return fmt.Errorf("%s %s failed: %w", e.Binary, args[0], err)
	}
	return nil
}

func stackVars(env, region string) []string {
	return []string{
		"-var", "environment=" + env,
		"-var", "region=" + region,
	}
}
