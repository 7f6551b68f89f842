// Package clipboard copies resume commands to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Copier writes text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// Manager copies through github.com/atotto/clipboard and falls back to the
// platform's clipboard command.
type Manager struct {
	lookPath func(string) (string, error)
	goos     string
}

// NewManager creates a clipboard manager for the running platform.
func NewManager() *Manager {
	return &Manager{lookPath: exec.LookPath, goos: runtime.GOOS}
}

// Copy copies text to the clipboard.
func (m *Manager) Copy(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}

	argv, err := m.fallbackCommand()
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard command %s failed: %w", argv[0], err)
	}
	return nil
}

// ErrNoClipboard is returned when no clipboard command is installed.
var ErrNoClipboard = errors.New("no clipboard command found (install xclip, xsel, or wl-clipboard)")

// fallbackCommand picks the clipboard command for the platform.
func (m *Manager) fallbackCommand() ([]string, error) {
	switch m.goos {
	case "darwin":
		return []string{"pbcopy"}, nil
	case "windows":
		return []string{"clip.exe"}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, argv := range [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		} {
			if _, err := m.lookPath(argv[0]); err == nil {
				return argv, nil
			}
		}
		return nil, ErrNoClipboard
	default:
		return nil, fmt.Errorf("unsupported platform: %s", m.goos)
	}
}
