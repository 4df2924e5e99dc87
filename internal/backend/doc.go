// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package backend implements the backend-resolution state machine: deciding
// whether a remote backend already exists for an (account, app, env) triple,
// retrieving or creating it idempotently, and tearing it down without
// orphaning cloud resources or corrupting local working directories.
package backend
