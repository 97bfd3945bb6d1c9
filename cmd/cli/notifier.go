package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"order-admin/internal/services"
)

// terminalNotifier asks confirmations on stdin and prints notifications.
// With assumeYes set it confirms without prompting.
type terminalNotifier struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newTerminalNotifier(in io.Reader, out io.Writer) *terminalNotifier {
	return &terminalNotifier{in: bufio.NewReader(in), out: out}
}

func (n *terminalNotifier) Confirm(ctx context.Context, title, body string) bool {
	if n.assumeYes {
		return true
	}

	fmt.Fprintf(n.out, "%s %s [y/N]: ", title, body)
	answer, err := n.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (n *terminalNotifier) Notify(kind services.NotificationKind, title, body string) {
	fmt.Fprintf(n.out, "[%s] %s %s\n", kind, title, body)
}
