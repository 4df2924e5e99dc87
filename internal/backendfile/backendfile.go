// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backendfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/tfboot/tfboot/internal/log"
)

// FileName is the fixed name Terraform reads backend configuration from.
const FileName = "backend.tf"

// LocalStatePath is where the bootstrap stack keeps its own state. The
// bootstrap stack cannot use the remote backend it is busy creating.
const LocalStatePath = "bootstrap.tfstate"

// bucketRe pulls the bucket name back out of a stored descriptor. This is the
// most fragile contract in the system: the descriptor is opaque text and the
// only structurally significant field is the first quoted bucket value.
// Callers must handle the empty result by falling back to the synthesized
// default name.
var bucketRe = regexp.MustCompile(`bucket\s*=\s*"([^"]+)"`)

// Build renders the s3 backend descriptor for the given bucket and naming
// context. The text is stored verbatim in SSM and written verbatim to disk,
// so the same bytes flow through the whole lifecycle.
func Build(bucket, region, account, safeKey string) string {
	f := hclwrite.NewEmptyFile()
	be := f.Body().AppendNewBlock("terraform", nil).Body().AppendNewBlock("backend", []string{"s3"}).Body()
	be.SetAttributeValue("bucket", cty.StringVal(bucket))
	be.SetAttributeValue("key", cty.StringVal(fmt.Sprintf("terraform.%s-%s-%s.tfstate", account, region, safeKey)))
	be.SetAttributeValue("region", cty.StringVal(region))
	be.SetAttributeValue("encrypt", cty.BoolVal(true))
	be.SetAttributeValue("use_lockfile", cty.BoolVal(true))
	return string(f.Bytes())
}

// BuildLocal renders the local-state variant used only by the bootstrap stack.
func BuildLocal() string {
	f := hclwrite.NewEmptyFile()
	be := f.Body().AppendNewBlock("terraform", nil).Body().AppendNewBlock("backend", []string{"local"}).Body()
	be.SetAttributeValue("path", cty.StringVal(LocalStatePath))
	return string(f.Bytes())
}

// BuildMinimal renders the empty s3 stub used to mark a directory as
// expecting a remote backend without configuring one.
func BuildMinimal() string {
	f := hclwrite.NewEmptyFile()
	f.Body().AppendNewBlock("terraform", nil).Body().AppendNewBlock("backend", []string{"s3"})
	return string(f.Bytes())
}

// Path returns the backend file path for a directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Write materializes content verbatim as dir/backend.tf, replacing whatever
// was there.
func Write(dir, content string) error {
	p := Path(dir)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	log.Infof("Wrote %s", p)
	return nil
}

// WriteLocal writes the local-state backend into dir for the bootstrap stack.
func WriteLocal(dir string) error {
	if err := Write(dir, BuildLocal()); err != nil {
		return err
	}
	log.Debugf("local backend pinned: dir=%s", dir)
	return nil
}

// EnsureMinimal creates the empty s3 stub only when no backend file exists.
// An existing file, whatever its content, is left untouched.
func EnsureMinimal(dir string) error {
	p := Path(dir)
	if _, err := os.Stat(p); err == nil {
		log.Infof("Found existing %s", p)
		return nil
	}
	if err := os.WriteFile(p, []byte(BuildMinimal()), 0o644); err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	log.Infof("Created minimal %s", p)
	return nil
}

// Erase removes dir/backend.tf. Absence is a no-op; Erase never fails.
func Erase(dir string) {
	p := Path(dir)
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to remove %s: %v", p, err)
		return
	}
	log.Infof("Erased %s", p)
}

// ExtractBucket returns the first quoted bucket value in a descriptor, or ""
// when the descriptor is missing or malformed.
func ExtractBucket(content string) string {
	m := bucketRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}
