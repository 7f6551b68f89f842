package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davidpaquet/ccsession/internal/finder"
	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/parser"
	"github.com/davidpaquet/ccsession/internal/text"
)

// showLineLimit bounds each message line printed by show.
const showLineLimit = 120

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-file>",
		Short: "Print a session file",
		Long: `Read one session file and print its header followed by one line per
message: the message type and its text with whitespace collapsed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			s, err := parser.ReadSessionFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session:  %s\n", s.SessionID)
			fmt.Fprintf(out, "Project:  %s (%s)\n", s.ProjectName, s.ProjectPath)
			fmt.Fprintf(out, "Started:  %s\n", s.StartTime.Local().Format(finder.TimeLayout))
			fmt.Fprintf(out, "Ended:    %s\n", s.EndTime.Local().Format(finder.TimeLayout))
			fmt.Fprintf(out, "Messages: %d\n\n", len(s.Messages))
			for _, m := range s.Messages {
				if err := writeLine(out, messageLine(m)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func messageLine(m model.SessionMessage) string {
	line := "[" + string(m.Type) + "]"
	if m.Message == nil || m.Message.Content == nil {
		return line
	}
	body := text.CollapseSpace(parser.ExtractMessageText(*m.Message.Content))
	if body == "" {
		return line
	}
	return line + " " + text.Truncate(body, showLineLimit)
}
