package resume

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// Launcher starts a resume command.
type Launcher interface {
	Launch(ctx context.Context, argv []string, dir string) error
}

// ExecLauncher runs the command attached to the current terminal and waits
// for it to exit.
type ExecLauncher struct{}

// Launch implements Launcher.
func (ExecLauncher) Launch(ctx context.Context, argv []string, dir string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
