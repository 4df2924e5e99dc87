// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tfboot/tfboot/internal/log"
)

const (
	// DefaultEnv is used when neither the flag nor TFBOOT_ENV/ENV is set.
	DefaultEnv = "dev"
	// DefaultRegion is used when no region can be resolved from flags or env.
	DefaultRegion = "us-east-1"
)

// Settings is the fully-resolved runtime configuration for one invocation.
// It is constructed once by the command layer and handed to the orchestrator;
// nothing mutates it afterward and there are no package-level defaults.
type Settings struct {
	Env            string
	Region         string
	TargetDir      string
	BucketOverride string
	AppName        string
	ForceCopy      bool
	Force          bool
	Profile        string
}

// EnvOrDefault returns the first non-empty value among the named environment
// variables, or def when none is set.
func EnvOrDefault(def string, names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return def
}

// File returns the absolute path to the optional tfboot.yaml used as a flag
// value source. If the TFBOOT_CFG_FILE environment variable is set, it is
// treated as the full path to the config file. Otherwise the OS-specific user
// configuration directory returned by os.UserConfigDir is used with the
// filename "tfboot.yaml". A missing file is not an error for callers; they
// get an empty path and the flag chain simply has one fewer source.
func File() string {
	path, err := locate()
	if err != nil {
		log.Debugf("no config file: %v", err)
		return ""
	}
	return path
}

// Load reads and parses the tfboot.yaml at path. Used by tests and by any
// caller that wants the raw tree rather than the flag-source chain.
func Load(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func locate() (string, error) {
	if cfgPath := os.Getenv("TFBOOT_CFG_FILE"); cfgPath != "" {
		if fileInfo, err := os.Stat(cfgPath); err == nil {
			if !fileInfo.IsDir() {
				log.Debugf("using config file from TFBOOT_CFG_FILE: %s", cfgPath)
				return cfgPath, nil
			}
			return "", fmt.Errorf("TFBOOT_CFG_FILE points to a directory: %s", cfgPath)
		}
		return "", fmt.Errorf("config file not found at TFBOOT_CFG_FILE path: %s", cfgPath)
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, "tfboot.yaml")
	if fileInfo, err := os.Stat(file); err == nil {
		if !fileInfo.IsDir() {
			log.Debugf("using config file: %s", file)
			return file, nil
		}
	}

	return "", fmt.Errorf("no config file found in standard locations")
}
