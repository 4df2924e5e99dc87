// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
)

// Meta contains runtime metadata shared by commands: the raw CLI arguments,
// the root context, and the working directory at startup.
type Meta struct {
	Args        []string
	Context     context.Context
	StartingDir string
}
