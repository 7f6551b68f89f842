// Package resume starts the assistant CLI on a recorded session.
package resume

import (
	"strings"

	"github.com/davidpaquet/ccsession/internal/config"
)

// SessionIDPlaceholder is replaced with the session id in agent arguments.
const SessionIDPlaceholder = "%{sessionId}"

// Options describe the command that resumes a session.
type Options struct {
	AgentCommand string
	AgentArgs    []string
	// Cwd overrides the session's project path as working directory.
	Cwd string
	// TerminalOpenModifier is prepended to the agent command, e.g.
	// "tmux new-window" to open the session in a new window.
	TerminalOpenModifier string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		AgentCommand: "claude",
		AgentArgs:    []string{"--resume", SessionIDPlaceholder},
	}
}

// OptionsFromSettings converts the [resume] settings section.
func OptionsFromSettings(s config.ResumeSettings) Options {
	return Options{
		AgentCommand:         s.AgentCommand,
		AgentArgs:            s.AgentArgs,
		TerminalOpenModifier: s.TerminalOpenModifier,
	}.WithDefaults()
}

// WithDefaults fills the agent command and arguments when unset.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.AgentCommand == "" {
		o.AgentCommand = d.AgentCommand
	}
	if o.AgentArgs == nil {
		o.AgentArgs = d.AgentArgs
	}
	return o
}

// Command returns the argv that resumes sessionID.
func Command(sessionID string, o Options) []string {
	o = o.WithDefaults()
	argv := strings.Fields(o.TerminalOpenModifier)
	argv = append(argv, o.AgentCommand)
	for _, arg := range o.AgentArgs {
		argv = append(argv, strings.ReplaceAll(arg, SessionIDPlaceholder, sessionID))
	}
	return argv
}

// ShellCommand returns a shell line that resumes sessionID from dir, for
// pasting into another terminal.
func ShellCommand(sessionID, dir string, o Options) string {
	argv := Command(sessionID, o)
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	line := strings.Join(quoted, " ")
	if dir == "" {
		return line
	}
	return "cd " + shellQuote(dir) + " && " + line
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, unsafeShellRune) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func unsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=@%+,", r)
}
