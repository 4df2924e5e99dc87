// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	ssmv2 "github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	stsv2 "github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfboot/tfboot/internal/backendfile"
	"github.com/tfboot/tfboot/internal/bucket"
	"github.com/tfboot/tfboot/internal/config"
)

// harness collects every fake behind one cross-component journal so tests
// can assert causal ordering (apply before persist before write).
type harness struct {
	journal []string

	account   string
	stsErr    error
	params    map[string]string
	putErr    error
	output    string
	outputErr error
	tfErr     error

	deletedBuckets []string
	listErr        error
}

func (h *harness) log(entry string) {
	h.journal = append(h.journal, entry)
}

func (h *harness) GetCallerIdentity(ctx context.Context, params *stsv2.GetCallerIdentityInput, optFns ...func(*stsv2.Options)) (*stsv2.GetCallerIdentityOutput, error) {
	if h.stsErr != nil {
		return nil, h.stsErr
	}
	return &stsv2.GetCallerIdentityOutput{Account: awsv2.String(h.account)}, nil
}

func (h *harness) GetParameter(ctx context.Context, params *ssmv2.GetParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.GetParameterOutput, error) {
	v, ok := h.params[*params.Name]
	if !ok {
		return nil, &ssmtypes.ParameterNotFound{}
	}
	return &ssmv2.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: awsv2.String(v)}}, nil
}

func (h *harness) PutParameter(ctx context.Context, params *ssmv2.PutParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.PutParameterOutput, error) {
	if h.putErr != nil {
		return nil, h.putErr
	}
	h.log("ssm:put")
	if h.params == nil {
		h.params = map[string]string{}
	}
	h.params[*params.Name] = *params.Value
	return &ssmv2.PutParameterOutput{}, nil
}

func (h *harness) DeleteParameter(ctx context.Context, params *ssmv2.DeleteParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.DeleteParameterOutput, error) {
	h.log("ssm:delete")
	delete(h.params, *params.Name)
	return &ssmv2.DeleteParameterOutput{}, nil
}

func (h *harness) ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error) {
	h.log("s3:list " + *params.Bucket)
	if h.listErr != nil {
		return nil, h.listErr
	}
	return &s3v2.ListObjectVersionsOutput{IsTruncated: awsv2.Bool(false)}, nil
}

func (h *harness) DeleteObjects(ctx context.Context, params *s3v2.DeleteObjectsInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectsOutput, error) {
	return &s3v2.DeleteObjectsOutput{}, nil
}

func (h *harness) DeleteBucket(ctx context.Context, params *s3v2.DeleteBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteBucketOutput, error) {
	h.log("s3:delete-bucket " + *params.Bucket)
	h.deletedBuckets = append(h.deletedBuckets, *params.Bucket)
	return &s3v2.DeleteBucketOutput{}, nil
}

// fakeRunner journals terraform invocations instead of running them.
type fakeRunner struct {
	h *harness
}

func (r *fakeRunner) Init(ctx context.Context, dir string, reconfigure, forceCopy bool) error {
	if r.h.tfErr != nil {
		return r.h.tfErr
	}
	entry := "tf:init " + filepath.Base(dir)
	if forceCopy {
		entry += " force-copy"
	}
	r.h.log(entry)
	return nil
}

func (r *fakeRunner) Plan(ctx context.Context, dir, env, region string) error {
	r.h.log("tf:plan " + filepath.Base(dir))
	return nil
}

func (r *fakeRunner) Apply(ctx context.Context, dir, env, region string) error {
	if r.h.tfErr != nil {
		return r.h.tfErr
	}
	r.h.log("tf:apply " + filepath.Base(dir))
	return nil
}

func (r *fakeRunner) Destroy(ctx context.Context, dir, env, region string) error {
	r.h.log("tf:destroy " + filepath.Base(dir))
	return nil
}

func (r *fakeRunner) OutputJSON(ctx context.Context, dir string) ([]byte, error) {
	if r.h.outputErr != nil {
		return nil, r.h.outputErr
	}
	return []byte(r.h.output), nil
}

func newTestOrchestrator(t *testing.T, h *harness, settings config.Settings) *Orchestrator {
	t.Helper()
	if settings.Env == "" {
		settings.Env = "dev"
	}
	if settings.Region == "" {
		settings.Region = "us-east-1"
	}
	if settings.AppName == "" {
		settings.AppName = "acme"
	}
	if settings.TargetDir == "" {
		settings.TargetDir = t.TempDir()
	}
	if h.account == "" {
		h.account = "123456789012"
	}
	mgr := bucket.New(h, settings.Region, bucket.WithFastPath(func(ctx context.Context, bucket, region string) {}))
	return New(settings, h, h, mgr, &fakeRunner{h: h})
}

func mkBootstrapDir(t *testing.T, targetDir string) string {
	t.Helper()
	dir := filepath.Join(targetDir, "bootstrap")
	require.NoError(t, os.Mkdir(dir, 0o755))
	return dir
}

func TestResolve(t *testing.T) {
	h := &harness{}
	o := newTestOrchestrator(t, h, config.Settings{})

	require.NoError(t, o.Resolve(context.Background()))
	assert.Equal(t, Resolved, o.State())
	assert.Equal(t, "/terraform/backend/123456789012-acmedev", o.Identity().ParameterName)
}

func TestResolve_Failure(t *testing.T) {
	h := &harness{stsErr: errors.New("no creds")}
	o := newTestOrchestrator(t, h, config.Settings{})

	assert.Error(t, o.Resolve(context.Background()))
	assert.Equal(t, Unresolved, o.State())
}

func TestEnsureBackend_FromStoredParameter(t *testing.T) {
	h := &harness{params: map[string]string{
		"/terraform/backend/123456789012-acmedev": `bucket = "stored-bucket"`,
	}}
	o := newTestOrchestrator(t, h, config.Settings{})

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.EnsureBackend(context.Background()))
	assert.Equal(t, BackendReady, o.State())

	// The stored descriptor lands verbatim in the target backend file, and
	// no bootstrap activity happens.
	data, err := os.ReadFile(backendfile.Path(o.Settings().TargetDir))
	require.NoError(t, err)
	assert.Equal(t, `bucket = "stored-bucket"`, string(data))
	assert.Empty(t, h.journal)
}

func TestEnsureBackend_BootstrapsWhenParameterAbsent(t *testing.T) {
	h := &harness{output: `{"bucket_name": {"value": "output-bucket"}}`}
	o := newTestOrchestrator(t, h, config.Settings{})
	mkBootstrapDir(t, o.Settings().TargetDir)

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.EnsureBackend(context.Background()))
	assert.Equal(t, BackendReady, o.State())

	// Apply before persist: init and apply in the bootstrap dir, then Put.
	assert.Equal(t, []string{"tf:init bootstrap", "tf:apply bootstrap", "ssm:put"}, h.journal)

	// The descriptor uses the bootstrap output variable.
	stored := h.params["/terraform/backend/123456789012-acmedev"]
	assert.Equal(t, "output-bucket", backendfile.ExtractBucket(stored))

	// Written to the target dir with the same bytes that were persisted.
	data, err := os.ReadFile(backendfile.Path(o.Settings().TargetDir))
	require.NoError(t, err)
	assert.Equal(t, stored, string(data))

	// The bootstrap stack keeps local state.
	bootstrapBackend, err := os.ReadFile(backendfile.Path(filepath.Join(o.Settings().TargetDir, "bootstrap")))
	require.NoError(t, err)
	assert.Contains(t, string(bootstrapBackend), `backend "local"`)
}

func TestBootstrap_BucketNamePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		override string
		output   string
		outputOK bool
		expected string
	}{
		{
			name:     "explicit override wins",
			override: "override-bucket",
			output:   `{"bucket_name": {"value": "output-bucket"}}`,
			outputOK: true,
			expected: "override-bucket",
		},
		{
			name:     "output variable",
			output:   `{"bucket_name": {"value": "output-bucket"}}`,
			outputOK: true,
			expected: "output-bucket",
		},
		{
			name:     "synthesized default when output empty",
			output:   `{}`,
			outputOK: true,
			expected: "123456789012-acmedev-tfstate",
		},
		{
			name:     "synthesized default when output query fails",
			expected: "123456789012-acmedev-tfstate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &harness{output: tt.output}
			if !tt.outputOK {
				h.outputErr = errors.New("no outputs")
			}
			o := newTestOrchestrator(t, h, config.Settings{BucketOverride: tt.override})
			mkBootstrapDir(t, o.Settings().TargetDir)

			require.NoError(t, o.Resolve(context.Background()))
			require.NoError(t, o.Bootstrap(context.Background()))

			stored := h.params["/terraform/backend/123456789012-acmedev"]
			assert.Equal(t, tt.expected, backendfile.ExtractBucket(stored))
		})
	}
}

func TestBootstrap_MissingBootstrapDir(t *testing.T) {
	h := &harness{}
	o := newTestOrchestrator(t, h, config.Settings{})

	require.NoError(t, o.Resolve(context.Background()))
	err := o.EnsureBackend(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap directory not found")
}

func TestBootstrap_PutFailureIsFatal(t *testing.T) {
	h := &harness{putErr: errors.New("denied"), output: "{}"}
	o := newTestOrchestrator(t, h, config.Settings{})
	mkBootstrapDir(t, o.Settings().TargetDir)

	require.NoError(t, o.Resolve(context.Background()))
	err := o.EnsureBackend(context.Background())
	require.Error(t, err)

	// The target backend file was never written: persist precedes write.
	assert.NoFileExists(t, backendfile.Path(o.Settings().TargetDir))
}

func TestBootstrap_StaleBackendFileIsReplaced(t *testing.T) {
	h := &harness{output: "{}"}
	o := newTestOrchestrator(t, h, config.Settings{})
	dir := mkBootstrapDir(t, o.Settings().TargetDir)
	require.NoError(t, backendfile.Write(dir, `bucket = "stale-leftover"`))

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.EnsureBackend(context.Background()))

	data, err := os.ReadFile(backendfile.Path(dir))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale-leftover")
}

func TestInitTarget(t *testing.T) {
	h := &harness{params: map[string]string{
		"/terraform/backend/123456789012-acmedev": `bucket = "b"`,
	}}
	o := newTestOrchestrator(t, h, config.Settings{ForceCopy: true})

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.EnsureBackend(context.Background()))
	require.NoError(t, o.InitTarget(context.Background()))

	assert.Equal(t, Initialized, o.State())
	require.Len(t, h.journal, 1)
	assert.Contains(t, h.journal[0], "tf:init")
	assert.Contains(t, h.journal[0], "force-copy")
}

func TestStateGuards(t *testing.T) {
	h := &harness{}
	o := newTestOrchestrator(t, h, config.Settings{})

	assert.Error(t, o.EnsureBackend(context.Background()))
	assert.Error(t, o.InitTarget(context.Background()))
	assert.Error(t, o.Plan(context.Background()))
	assert.Error(t, o.Apply(context.Background()))
	assert.Error(t, o.DestroyBootstrap(context.Background()))
	assert.Empty(t, h.journal)
}

func TestPlanAndApply(t *testing.T) {
	h := &harness{params: map[string]string{
		"/terraform/backend/123456789012-acmedev": `bucket = "b"`,
	}}
	o := newTestOrchestrator(t, h, config.Settings{})

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.EnsureBackend(context.Background()))
	require.NoError(t, o.InitTarget(context.Background()))

	require.NoError(t, o.Plan(context.Background()))
	assert.Equal(t, Planned, o.State())

	require.NoError(t, o.Apply(context.Background()))
	assert.Equal(t, Applied, o.State())
}

func TestDestroyTopLevel(t *testing.T) {
	h := &harness{params: map[string]string{
		"/terraform/backend/123456789012-acmedev": `bucket = "b"`,
	}}
	o := newTestOrchestrator(t, h, config.Settings{})

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.DestroyTopLevel(context.Background()))

	assert.Equal(t, Destroyed, o.State())
	require.Len(t, h.journal, 2)
	assert.Contains(t, h.journal[0], "tf:init")
	assert.Contains(t, h.journal[1], "tf:destroy")
}

func TestDestroyBootstrap_UsesStoredBucketName(t *testing.T) {
	h := &harness{params: map[string]string{
		"/terraform/backend/123456789012-acmedev": `bucket = "stored-bucket"`,
	}}
	o := newTestOrchestrator(t, h, config.Settings{})
	dir := mkBootstrapDir(t, o.Settings().TargetDir)
	require.NoError(t, backendfile.Write(dir, "leftover"))

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.DestroyBootstrap(context.Background()))

	assert.Equal(t, []string{"stored-bucket"}, h.deletedBuckets)
	// Parameter deleted, leftover backend file erased, empty before delete.
	assert.Equal(t, []string{"ssm:delete", "s3:list stored-bucket", "s3:delete-bucket stored-bucket"}, h.journal)
	assert.NoFileExists(t, backendfile.Path(dir))
}

func TestDestroyBootstrap_FallsBackToDefaultBucket(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{
			name:   "descriptor missing",
			params: nil,
		},
		{
			name: "descriptor unparseable",
			params: map[string]string{
				"/terraform/backend/123456789012-acmedev": "no bucket here",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &harness{params: tt.params}
			o := newTestOrchestrator(t, h, config.Settings{})
			mkBootstrapDir(t, o.Settings().TargetDir)

			require.NoError(t, o.Resolve(context.Background()))
			require.NoError(t, o.DestroyBootstrap(context.Background()))
			assert.Equal(t, []string{"123456789012-acmedev-tfstate"}, h.deletedBuckets)
		})
	}
}

func TestDestroyBootstrap_MissingDirSkips(t *testing.T) {
	h := &harness{params: map[string]string{
		"/terraform/backend/123456789012-acmedev": `bucket = "stored-bucket"`,
	}}
	o := newTestOrchestrator(t, h, config.Settings{})

	require.NoError(t, o.Resolve(context.Background()))
	require.NoError(t, o.DestroyBootstrap(context.Background()))

	// Not fatal, and nothing was touched.
	assert.Empty(t, h.journal)
	assert.Empty(t, h.deletedBuckets)
}
