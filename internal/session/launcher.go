// Package session opens an SSM session into the selected container by
// running the AWS CLI.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/briandowns/spinner"

	"github.com/noelruault/ecs-connect/internal/selection"
)

// Session documents understood by the session manager.
const (
	ShellDocument       = "AWS-StartInteractiveCommand"
	PortForwardDocument = "AWS-StartPortForwardingSessionToRemoteHost"
)

const (
	// DefaultLocalPort keeps clear of a local MySQL on 3306.
	DefaultLocalPort  = 33066
	DefaultBinary     = "aws"
	DefaultMinDisplay = time.Second

	shellCommand = "su -l"
)

// Invocation is a command line to run.
type Invocation struct {
	Name string
	Args []string
}

// Runner runs an invocation attached to the terminal.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// Indicator is shown while the launcher waits to start the session.
type Indicator interface {
	Start()
	Stop()
}

// Launcher turns a completed selection into a session-manager invocation.
type Launcher struct {
	Runner Runner
	// Out receives the progress indicator.
	Out io.Writer
	// Indicator overrides the default spinner drawn on Out.
	Indicator Indicator
	// MinDisplay is how long the progress indicator is shown before the
	// child starts. Zero skips it.
	MinDisplay time.Duration
	Binary     string
	Profile    string
	Region     string
	LocalPort  int
}

// Command builds the invocation for st without running it.
func (l *Launcher) Command(st *selection.State) (Invocation, error) {
	target, err := st.Target()
	if err != nil {
		return Invocation{}, err
	}

	var document string
	var params map[string][]string
	switch st.Mode {
	case selection.ModeShell:
		document = ShellDocument
		params = map[string][]string{"command": {shellCommand}}
	case selection.ModeDatabase:
		if st.Database == nil {
			return Invocation{}, fmt.Errorf("%w: missing database", selection.ErrIncompleteSelection)
		}
		localPort := l.LocalPort
		if localPort == 0 {
			localPort = DefaultLocalPort
		}
		document = PortForwardDocument
		params = map[string][]string{
			"host":            {st.Database.Host},
			"portNumber":      {strconv.Itoa(int(st.Database.Port))},
			"localPortNumber": {strconv.Itoa(localPort)},
		}
	default:
		return Invocation{}, fmt.Errorf("%w: missing connection mode", selection.ErrIncompleteSelection)
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return Invocation{}, fmt.Errorf("failed to encode session parameters: %w", err)
	}

	binary := l.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	args := []string{
		"ssm", "start-session",
		"--target", target,
		"--document-name", document,
		"--parameters", string(encoded),
	}
	if l.Profile != "" {
		args = append(args, "--profile", l.Profile)
	}
	if l.Region != "" {
		args = append(args, "--region", l.Region)
	}
	return Invocation{Name: binary, Args: args}, nil
}

// Launch shows the progress indicator, then runs the session in the
// foreground until it ends.
func (l *Launcher) Launch(ctx context.Context, st *selection.State) error {
	if l.Runner == nil {
		return errors.New("session runner not configured")
	}
	inv, err := l.Command(st)
	if err != nil {
		return err
	}

	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.Runner.Run(ctx, inv)
}

// wait blocks for MinDisplay with a spinner. The spinner is stopped before
// returning so it never draws over the child's output.
func (l *Launcher) wait(ctx context.Context) error {
	if l.MinDisplay <= 0 {
		return nil
	}

	ind := l.Indicator
	if ind == nil {
		ind = newSpinner(l.Out)
	}
	ind.Start()
	defer ind.Stop()

	timer := time.NewTimer(l.MinDisplay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newSpinner(out io.Writer) *spinner.Spinner {
	var opts []spinner.Option
	if out != nil {
		opts = append(opts, spinner.WithWriter(out))
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, opts...)
	s.Suffix = " Wait for connection..."
	return s
}
