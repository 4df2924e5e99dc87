// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseTargetDir resolves a target directory spec to an absolute path. A
// relative spec is resolved against the CWD. It returns an error if the fs
// entry does not exist, is empty or is not a directory.
func ParseTargetDir(targetDir string) (string, error) {
	if targetDir == "" {
		return "", os.ErrInvalid
	}

	var dir string
	if !strings.HasPrefix(targetDir, "/") {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, targetDir)
	} else {
		dir = targetDir
	}

	// If the targetDir is not a directory, return an error.
	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return dir, nil
}
