package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noelruault/ecs-connect/internal/aws"
	"github.com/noelruault/ecs-connect/internal/config"
	"github.com/noelruault/ecs-connect/internal/navigator"
	"github.com/noelruault/ecs-connect/internal/release"
	"github.com/noelruault/ecs-connect/internal/selection"
	"github.com/noelruault/ecs-connect/internal/session"
	"github.com/noelruault/ecs-connect/internal/ui/prompt"
)

type options struct {
	printOnly     bool
	debug         bool
	noUpdateCheck bool
	profile       string
	region        string
	localPort     int
	configPath    string
}

// launcher opens the session for a completed selection.
type launcher interface {
	Launch(ctx context.Context, st *selection.State) error
}

// flow is everything one interactive run needs.
type flow struct {
	navigator *navigator.Navigator
	launcher  launcher
	printOnly bool
	out       io.Writer
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, out io.Writer) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if opts.debug {
		if log, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("ecs-connect is interactive: run it from a terminal")
	}

	if cfg.CheckUpdates {
		checkVersion(ctx, out, log)
	}
	welcome(out)

	client, err := aws.NewClient(ctx, aws.Options{Profile: cfg.Profile, Region: cfg.Region, Logger: log})
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	identity, err := client.CallerIdentity(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s  %s %s\n\n",
		labelStyle.Render("Account:"), valueStyle.Render(identity.Account),
		labelStyle.Render("Region:"), valueStyle.Render(client.GetRegion()))

	nav := navigator.New(client, prompt.New(os.Stdin, out), log)
	if opts.printOnly {
		nav.StopAfter(selection.StepContainer)
	}

	return connect(ctx, &flow{
		navigator: nav,
		launcher: &session.Launcher{
			Runner:     session.NewExecRunner(),
			Out:        out,
			MinDisplay: cfg.ConnectDelay,
			Binary:     cfg.AWSBinary,
			Profile:    cfg.Profile,
			Region:     client.GetRegion(),
			LocalPort:  cfg.LocalPort,
		},
		printOnly: opts.printOnly,
		out:       out,
	})
}

// connect runs the navigator, then prints the target or opens the session.
// Cancelling is a normal way out and is not an error.
func connect(ctx context.Context, f *flow) error {
	st := &selection.State{}
	if err := f.navigator.Run(ctx, st); err != nil {
		if errors.Is(err, navigator.ErrCancelled) {
			return nil
		}
		return err
	}

	if f.printOnly {
		target, err := st.Target()
		if err != nil {
			return err
		}
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, targetStyle.Render(target))
		return nil
	}

	fmt.Fprintln(f.out)
	return f.launcher.Launch(ctx, st)
}

// loadConfig reads the config file and environment, then applies flags the
// operator set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			path = ""
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = opts.profile
	}
	if flags.Changed("region") {
		cfg.Region = opts.region
	}
	if flags.Changed("local-port") {
		if opts.localPort < 1 || opts.localPort > 65535 {
			return nil, fmt.Errorf("invalid --local-port %d", opts.localPort)
		}
		cfg.LocalPort = opts.localPort
	}
	if opts.noUpdateCheck || release.IsDevelopment(version) {
		cfg.CheckUpdates = false
	}
	return cfg, nil
}

func welcome(out io.Writer) {
	fmt.Fprintln(out, titleStyle.Render("ECS Connect 🔌"))
	fmt.Fprintln(out)
}

// checkVersion prints a notice when a newer release exists. Failures only
// show up in the debug log.
func checkVersion(ctx context.Context, out io.Writer, log *zap.Logger) {
	latest, newer, err := release.CheckLatest(ctx, version)
	if err != nil {
		log.Debug("release check failed", zap.Error(err))
		return
	}
	if !newer {
		return
	}
	fmt.Fprintln(out, "Your version is behind! - "+errorStyle.Render(version))
	fmt.Fprintln(out, "Please update the package to get the latest version! "+warningStyle.Render(latest))
	fmt.Fprintln(out, "Run "+warningStyle.Render("ecs-connect upgrade"))
	fmt.Fprintln(out)
}
