// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command wires the tfboot CLI: one builder per subcommand, shared
// flag constructors, the destructive-command confirmation prompt, and the
// glue that turns flags into a config.Settings and an orchestrator.
package command
