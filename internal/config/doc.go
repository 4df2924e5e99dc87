// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config holds the resolved per-invocation Settings struct and the
// locator for tfboot's optional YAML configuration file, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/tfboot.yaml or $HOME/.config/tfboot.yaml
//   - Windows: %APPDATA%/tfboot/tfboot.yaml
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions.
package config
