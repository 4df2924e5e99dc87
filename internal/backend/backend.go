// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/tfboot/tfboot/internal/backendfile"
	"github.com/tfboot/tfboot/internal/bucket"
	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/identity"
	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/paramstore"
	"github.com/tfboot/tfboot/internal/tfexec"
)

// bootstrapDirName is the conventional directory holding the bootstrap stack.
const bootstrapDirName = "bootstrap"

// State tracks how far the orchestrator has advanced toward a usable backend.
type State int

const (
	Unresolved State = iota
	Resolved
	BackendReady
	Initialized
	Planned
	Applied
	Destroyed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case BackendReady:
		return "backend-ready"
	case Initialized:
		return "initialized"
	case Planned:
		return "planned"
	case Applied:
		return "applied"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

// Orchestrator drives a single invocation through the backend lifecycle. It
// owns no clients; everything is injected so tests can substitute fakes.
// Execution is strictly sequential.
type Orchestrator struct {
	settings config.Settings
	sts      identity.CallerIdentityAPI
	params   paramstore.ParameterAPI
	buckets  *bucket.Manager
	tf       tfexec.Runner

	state State
	id    identity.Identity
	store *paramstore.Store
}

// New wires an Orchestrator from its collaborators.
func New(settings config.Settings, sts identity.CallerIdentityAPI, params paramstore.ParameterAPI, buckets *bucket.Manager, tf tfexec.Runner) *Orchestrator {
	return &Orchestrator{
		settings: settings,
		sts:      sts,
		params:   params,
		buckets:  buckets,
		tf:       tf,
		state:    Unresolved,
	}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Settings returns the invocation settings the orchestrator was built with.
func (o *Orchestrator) Settings() config.Settings { return o.settings }

// Identity returns the resolved naming context; zero until Resolve succeeds.
func (o *Orchestrator) Identity() identity.Identity { return o.id }

// Resolve runs the identity resolver and binds the parameter store to the
// derived parameter name. Failure is terminal for the whole command.
func (o *Orchestrator) Resolve(ctx context.Context) error {
	id, err := identity.Resolve(ctx, o.sts, o.settings.Env, o.settings.AppName)
	if err != nil {
		return err
	}
	o.id = id
	o.store = paramstore.New(o.params, id.ParameterName)
	o.state = Resolved
	return nil
}

// EnsureBackend moves from Resolved to BackendReady. A descriptor already in
// the parameter store is simply written to the target directory; otherwise
// the bootstrap sub-flow creates bucket, descriptor and parameter.
func (o *Orchestrator) EnsureBackend(ctx context.Context) error {
	if err := o.require(Resolved); err != nil {
		return err
	}

	value := o.store.Get(ctx)
	if value != "" && value != "None" {
		log.Infof("Found backend configuration in SSM %s", o.id.ParameterName)
		if err := backendfile.Write(o.settings.TargetDir, value); err != nil {
			return err
		}
		o.state = BackendReady
		return nil
	}

	log.Infof("Backend SSM parameter %s not found or empty. Running bootstrap to create backend and SSM entry.", o.id.ParameterName)
	if err := o.bootstrap(ctx); err != nil {
		return err
	}
	o.state = BackendReady
	return nil
}

// Bootstrap runs the bootstrap sub-flow unconditionally (the `bootstrap`
// command). Safe to re-run: terraform apply is idempotent and the parameter
// Put is create-or-replace.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	if err := o.require(Resolved); err != nil {
		return err
	}
	if err := o.bootstrap(ctx); err != nil {
		return err
	}
	o.state = BackendReady
	return nil
}

// bootstrap provisions the bootstrap stack, determines the bucket name,
// persists the descriptor and writes the backend file. The causal order
// apply-before-persist-before-write is the one ordering guarantee here: a
// partial failure always leaves a state a re-run can pick up from.
func (o *Orchestrator) bootstrap(ctx context.Context) error {
	dir, err := o.bootstrapDir()
	if err != nil {
		return err
	}
	log.Infof("Found bootstrap directory at %s. Running init and apply...", dir)

	// The bootstrap stack must not inherit a descriptor from a previous run,
	// and keeps its own state local.
	backendfile.Erase(dir)
	if err := backendfile.WriteLocal(dir); err != nil {
		return err
	}

	if err := o.tf.Init(ctx, dir, true, false); err != nil {
		return err
	}
	if err := o.tf.Apply(ctx, dir, o.settings.Env, o.settings.Region); err != nil {
		return err
	}
	log.Infof("Bootstrap apply completed in %s.", dir)

	bucketName := o.resolveBucketName(ctx, dir)

	content := backendfile.Build(bucketName, o.settings.Region, o.id.AccountID, o.id.SafeAppKey)
	if err := o.store.Put(ctx, content); err != nil {
		return err
	}
	log.Infof("Stored backend configuration into SSM parameter %s", o.id.ParameterName)

	return backendfile.Write(o.settings.TargetDir, content)
}

// InitTarget initializes the target stack against the freshly written backend
// file. Reconfigure is always passed so a cached backend never wins.
func (o *Orchestrator) InitTarget(ctx context.Context) error {
	if err := o.require(BackendReady); err != nil {
		return err
	}
	if err := o.tf.Init(ctx, o.settings.TargetDir, true, o.settings.ForceCopy); err != nil {
		return err
	}
	o.state = Initialized
	return nil
}

// Plan runs a plan of the target stack.
func (o *Orchestrator) Plan(ctx context.Context) error {
	if err := o.require(Initialized); err != nil {
		return err
	}
	if err := o.tf.Plan(ctx, o.settings.TargetDir, o.settings.Env, o.settings.Region); err != nil {
		return err
	}
	o.state = Planned
	return nil
}

// Apply applies the target stack non-interactively.
func (o *Orchestrator) Apply(ctx context.Context) error {
	if err := o.require(Initialized); err != nil {
		return err
	}
	if err := o.tf.Apply(ctx, o.settings.TargetDir, o.settings.Env, o.settings.Region); err != nil {
		return err
	}
	o.state = Applied
	return nil
}

// DestroyTopLevel destroys the user's stack. The backend must be resolved and
// the directory initialized first so terraform can reach the remote state.
func (o *Orchestrator) DestroyTopLevel(ctx context.Context) error {
	log.Infof("Destroying top-level stack in %s", o.settings.TargetDir)
	if o.state == Resolved {
		if err := o.EnsureBackend(ctx); err != nil {
			return err
		}
	}
	if o.state == BackendReady {
		if err := o.InitTarget(ctx); err != nil {
			return err
		}
	}
	if err := o.require(Initialized); err != nil {
		return err
	}
	if err := o.tf.Destroy(ctx, o.settings.TargetDir, o.settings.Env, o.settings.Region); err != nil {
		return err
	}
	o.state = Destroyed
	log.Infof("Top-level stack destroyed.")
	return nil
}

// DestroyBootstrap tears down the bootstrap stack's artifacts: the SSM
// parameter, any leftover backend file, and the state bucket. Every step is
// best-effort; a missing bootstrap directory only warns, since bootstrap may
// already have been removed.
func (o *Orchestrator) DestroyBootstrap(ctx context.Context) error {
	if err := o.require(Resolved); err != nil {
		return err
	}

	dir, err := o.bootstrapDir()
	if err != nil {
		log.Warnf("Bootstrap directory not found; skipping bootstrap destroy.")
		return nil
	}
	log.Infof("Preparing to destroy bootstrap resources in %s", dir)

	// Recover the bucket name before deleting the parameter.
	bucketName := backendfile.ExtractBucket(o.store.Get(ctx))
	if bucketName == "" {
		bucketName = identity.DefaultBucketName(o.id.AccountID, o.id.SafeAppKey)
	}

	o.store.Delete(ctx)
	backendfile.Erase(dir)

	o.buckets.Empty(ctx, bucketName)
	if err := o.buckets.Delete(ctx, bucketName); err != nil {
		log.Warnf("Bootstrap resources destroyed, but bucket deletion failed. Empty and delete the S3 bucket %s manually.", bucketName)
		return nil
	}

	log.Infof("Bootstrap resources destroyed.")
	return nil
}

// bootstrapDir locates the bootstrap working directory: first under the
// target directory, then the current directory. First match wins.
func (o *Orchestrator) bootstrapDir() (string, error) {
	candidates := []string{
		filepath.Join(o.settings.TargetDir, bootstrapDirName),
		bootstrapDirName,
	}
	for _, d := range candidates {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			return d, nil
		}
	}
	return "", fmt.Errorf("bootstrap directory not found in %v", candidates)
}

// resolveBucketName picks the state bucket name: explicit override, then the
// bootstrap stack's bucket_name output, then the synthesized default.
func (o *Orchestrator) resolveBucketName(ctx context.Context, bootstrapDir string) string {
	if o.settings.BucketOverride != "" {
		return o.settings.BucketOverride
	}

	if out, err := o.tf.OutputJSON(ctx, bootstrapDir); err == nil {
		if name := gjson.GetBytes(out, "bucket_name.value").String(); name != "" {
			return name
		}
	} else {
		log.Debugf("output query failed: err=%v", err)
	}

	return identity.DefaultBucketName(o.id.AccountID, o.id.SafeAppKey)
}

func (o *Orchestrator) require(s State) error {
	if o.state < s {
		return fmt.Errorf("operation requires %s state, currently %s", s, o.state)
	}
	return nil
}
