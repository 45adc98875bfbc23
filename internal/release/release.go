// Package release checks GitHub for newer builds and replaces the running
// binary with the latest one.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/creativeprojects/go-selfupdate"
)

// RepoSlug is the GitHub repository releases are published to.
const RepoSlug = "noelruault/ecs-connect"

// ErrDevelopmentVersion is returned for builds without a release version.
var ErrDevelopmentVersion = errors.New("cannot update a development version")

// IsDevelopment reports whether version is not a release build.
func IsDevelopment(version string) bool {
	return version == "" || version == "dev"
}

// CheckLatest returns the latest published version and whether it is newer
// than current.
func CheckLatest(ctx context.Context, current string) (string, bool, error) {
	if IsDevelopment(current) {
		return "", false, ErrDevelopmentVersion
	}

	latest, found, err := detect(ctx)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	return latest.Version(), latest.GreaterThan(current), nil
}

// Upgrade replaces the running executable with the latest release.
func Upgrade(ctx context.Context, current string, out io.Writer) error {
	if IsDevelopment(current) {
		return ErrDevelopmentVersion
	}

	fmt.Fprintf(out, "Current version: %s\n", current)
	fmt.Fprintln(out, "Checking for updates...")

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(RepoSlug))
	if err != nil {
		return fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest release for %s could not be found", RepoSlug)
	}
	if !latest.GreaterThan(current) {
		fmt.Fprintln(out, "Current version is the latest.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(out, "Updating %s to version %s...\n", exe, latest.Version())
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", latest.Version())
	return nil
}

func detect(ctx context.Context) (*selfupdate.Release, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(RepoSlug))
	if err != nil {
		return nil, false, fmt.Errorf("error detecting latest version: %w", err)
	}
	return latest, found, nil
}
