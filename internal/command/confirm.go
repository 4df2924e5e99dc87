// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

// Confirm asks the operator to approve a destructive action. Returns true
// only for an explicit y/Y answer. With force set, no prompt is shown. A
// non-terminal stdin or EOF counts as declined so scripted runs without
// --force never destroy anything.
func Confirm(prompt string, force bool) bool {
	if force {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	fmt.Print(promptStyle.Render(prompt) + " [y/N]: ")
	resp, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(resp)), "y")
}
