package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

const DefaultCommand = "wg show"

// Fetcher returns the raw status text of the VPN daemon.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetchError is returned for every failed fetch: launch failure, non-zero
// exit or timeout. It unwraps to the underlying cause.
type FetchError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %q: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// CommandFetcher runs an external command and returns its stdout.
type CommandFetcher struct {
	Args    []string
	Timeout time.Duration
}

func NewCommandFetcher(command string, timeout time.Duration) (*CommandFetcher, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("parse command %q: empty", command)
	}
	return &CommandFetcher{Args: args, Timeout: timeout}, nil
}

func (f *CommandFetcher) Fetch(ctx context.Context) (string, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.Args[0], f.Args[1:]...)
	// children that inherited stdout must not keep Wait blocked past the deadline
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", &FetchError{
			Command: strings.Join(f.Args, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.String(), nil
}
