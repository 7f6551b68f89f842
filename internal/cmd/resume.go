package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/davidpaquet/ccsession/internal/config"
	"github.com/davidpaquet/ccsession/internal/finder"
	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/resume"
)

// ErrSessionNotFound is returned when no listed session has the requested id.
var ErrSessionNotFound = errors.New("session not found")

func (a *app) resumeCmd() *cobra.Command {
	var (
		payload  string
		command  string
		cmdArgs  []string
		terminal string
	)
	cmd := &cobra.Command{
		Use:   "resume [session-id]",
		Short: "Resume a session by id or payload",
		Long: `Resume a session without the picker.

The session is looked up by id among the listed sessions (use --all to look
in every project), or given directly as a JSON payload with --payload, as
printed by "ccsession list --json".

Agent arguments may contain %{sessionId}, which is replaced with the id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings()
			if err != nil {
				return err
			}

			var item model.ActionData
			switch {
			case payload != "":
				item, err = resume.DecodeActionData([]byte(payload))
			case len(args) == 1:
				item, err = a.lookup(cmd, settings, args[0])
			default:
				return errors.New("a session id or --payload is required")
			}
			if err != nil {
				return err
			}

			kind := a.kind(cmd, settings)
			if cmd.Flags().Changed("command") {
				kind.Options.AgentCommand = command
			}
			if cmd.Flags().Changed("arg") {
				kind.Options.AgentArgs = cmdArgs
			}
			if cmd.Flags().Changed("terminal") {
				kind.Options.TerminalOpenModifier = terminal
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return kind.Resume(ctx, []model.ActionData{item})
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "resume payload as JSON")
	cmd.Flags().StringVar(&command, "command", "", "agent command (default from settings, claude)")
	cmd.Flags().StringArrayVar(&cmdArgs, "arg", nil, "agent argument (can be specified multiple times)")
	cmd.Flags().StringVar(&terminal, "terminal", "", `words put before the agent command, e.g. "tmux new-window"`)
	return cmd
}

// lookup finds the listed session with the given id.
func (a *app) lookup(cmd *cobra.Command, settings config.Settings, id string) (model.ActionData, error) {
	cwd, err := a.getwd()
	if err != nil {
		return model.ActionData{}, fmt.Errorf("get working directory: %w", err)
	}
	for s, err := range finder.Sessions(a.parser(), cwd, a.sourceParams(cmd, settings)) {
		if err != nil {
			return model.ActionData{}, err
		}
		if s.SessionID == id {
			return s.ActionData(), nil
		}
	}
	return model.ActionData{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}
