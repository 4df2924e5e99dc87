// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tfboot/tfboot/internal/command"
	"github.com/tfboot/tfboot/internal/identity"
	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/version"
)

// Exit codes. Declined confirmations exit 0; interrupts get their own code so
// wrappers can tell an aborted run from a failed one.
const (
	exitOK        = 0
	exitFailure   = 1
	exitConfig    = 2
	exitInterrupt = 130
)

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return exitOK
	}

	args = handleNakedCommand(args)

	// An interrupt cancels the context, which kills any child process, and
	// maps to a distinct exit status.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return exitFailure
	}

	if err := app.Run(ctx, args); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted")
			return exitInterrupt
		}

		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)

		var cfgErr *identity.ConfigError
		if errors.As(err, &cfgErr) {
			return exitConfig
		}
		return exitFailure
	}

	if ctx.Err() != nil {
		return exitInterrupt
	}
	return exitOK
}
