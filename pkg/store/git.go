package store

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mgolubev/pot/pkg/logging"
)

// Runner executes the version-control commands the bootstrapper needs.
// The VCS is treated as an opaque command with arguments and an exit code.
type Runner interface {
	// Clone clones url into dest, relative to dir
	Clone(ctx context.Context, dir, url, dest string) error

	// SubmoduleUpdate initializes and updates submodules in dir
	SubmoduleUpdate(ctx context.Context, dir string) error
}

// execRunner runs git through os/exec
type execRunner struct{}

// NewExecRunner returns a Runner backed by the git binary on PATH
func NewExecRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) Clone(ctx context.Context, dir, url, dest string) error {
	return r.run(ctx, dir, "clone", url, dest)
}

func (r *execRunner) SubmoduleUpdate(ctx context.Context, dir string) error {
	if err := r.run(ctx, dir, "submodule", "init"); err != nil {
		return err
	}
	return r.run(ctx, dir, "submodule", "update")
}

func (r *execRunner) run(ctx context.Context, dir string, args ...string) error {
	logger := logging.GetLogger("store.git")
	logger.Debug().Str("dir", dir).Strs("args", args).Msg("Running git")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
