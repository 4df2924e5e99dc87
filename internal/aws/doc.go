// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS-related helpers and adapters: shared config
// loading and the S3/SSM/STS client constructors used by the backend
// bootstrap flow.
package aws
