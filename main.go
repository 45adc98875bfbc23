package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/noelruault/ecs-connect/internal/release"
	"github.com/noelruault/ecs-connect/internal/ui/prompt"
)

// Version can be set during build with -ldflags
var version = "dev"

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	targetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
)

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ecs-connect",
		Short: "Simplified way to connect ECS containers",
		Long: `Simplified way to connect ECS containers.

Pick a cluster, service, running task and container, then open an
interactive shell in the container or forward a local port to the
cluster's database through AWS Session Manager.

Requires the AWS CLI and the session-manager-plugin on PATH.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, opts, out)
		},
	}
	cmd.SetVersionTemplate(`{{printf "ecs-connect version %s\n" .Version}}`)
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.BoolVar(&opts.printOnly, "print-only", false, "print the target to the console to use it for any purpose (for example: port forwarding)")
	flags.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	flags.StringVar(&opts.region, "region", "", "AWS region")
	flags.IntVar(&opts.localPort, "local-port", 0, "local port for database port forwarding (default 33066)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default $HOME/.ecs-connect/config.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "log AWS calls and navigation to stderr")
	flags.BoolVar(&opts.noUpdateCheck, "no-update-check", false, "skip checking GitHub for a newer release")

	cmd.AddCommand(newUpgradeCmd(out), newVersionCmd(out))
	return cmd
}

func newUpgradeCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Update ecs-connect to the latest version",
		Long: `Checks for the latest release of ecs-connect on GitHub and
updates the current binary if a newer version is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return release.Upgrade(cmd.Context(), version, out)
		},
	}
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of ecs-connect",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(out, "ecs-connect version %s\n", version)
		},
	}
}

// exitCode maps an error returned by the command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, prompt.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return exitError
}

// reportable reports whether err should be printed. Interrupts and session
// exit codes were already visible on the terminal.
func reportable(err error) bool {
	var exitErr *exec.ExitError
	return !errors.Is(err, prompt.ErrInterrupted) &&
		!errors.Is(err, context.Canceled) &&
		!errors.As(err, &exitErr)
}

func main() {
	// The session relays its own signals; this context ends fetches and the
	// connection wait.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil && reportable(err) {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
	}
	os.Exit(exitCode(err))
}
