// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/tfboot/tfboot/internal/backendfile"
	"github.com/tfboot/tfboot/internal/log"
)

var (
	cleanDirs = map[string]bool{
		".terraform": true,
	}
	cleanFiles = map[string]bool{
		".terraform.lock.hcl":      true,
		backendfile.FileName:       true,
		"terraform.tfstate":        true,
		"terraform.tfstate.backup": true,
	}
)

// Clean walks targetDir removing local Terraform artifacts: .terraform
// directories, lock files, backend files, and state files with their backups.
// It needs no resolved identity and no cloud access. Individual removal
// failures are logged and skipped; Clean itself never fails. Returns the
// number of entries removed.
func Clean(targetDir string) int {
	log.Infof("Cleaning Terraform files and directories from %s", targetDir)

	removed := 0
	err := filepath.WalkDir(targetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warnf("failed to walk %s: %v", path, err)
			return nil
		}

		if d.IsDir() && cleanDirs[d.Name()] && path != targetDir {
			if err := os.RemoveAll(path); err != nil {
				log.Errorf("Failed to remove directory %s: %v", path, err)
			} else {
				log.Infof("Removed directory: %s", path)
				removed++
			}
			return filepath.SkipDir
		}

		if !d.IsDir() && cleanFiles[d.Name()] {
			if err := os.Remove(path); err != nil {
				log.Errorf("Failed to remove file %s: %v", path, err)
			} else {
				log.Infof("Removed file: %s", path)
				removed++
			}
		}
		return nil
	})
	if err != nil {
		log.Warnf("walk ended early: %v", err)
	}

	log.Infof("Clean completed. Removed %s items.", humanize.Comma(int64(removed)))
	return removed
}
