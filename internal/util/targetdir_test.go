// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetDir(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T) string
		wantErr  bool
	}{
		{
			name: "absolute_path",
			setupDir: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
		{
			name: "relative_path",
			setupDir: func(t *testing.T) string {
				tmpDir := t.TempDir()
				oldCwd, err := os.Getwd()
				require.NoError(t, err)
				require.NoError(t, os.Chdir(filepath.Dir(tmpDir)))
				t.Cleanup(func() {
					_ = os.Chdir(oldCwd)
				})
				return filepath.Base(tmpDir)
			},
			wantErr: false,
		},
		{
			name: "empty_spec",
			setupDir: func(t *testing.T) string {
				return ""
			},
			wantErr: true,
		},
		{
			name: "nonexistent",
			setupDir: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr: true,
		},
		{
			name: "not_a_directory",
			setupDir: func(t *testing.T) string {
				f := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
				return f
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.setupDir(t)
			dir, err := ParseTargetDir(spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(dir))
		})
	}
}
