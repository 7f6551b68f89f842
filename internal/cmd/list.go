package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidpaquet/ccsession/internal/finder"
	"github.com/davidpaquet/ccsession/internal/logging"
)

func (a *app) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the sessions without the picker",
		Long: `Print one line per session in discovery order: the end time, then
the first user message.

With --json each line is the resume payload of the session, which can be
passed back with "ccsession resume --payload".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output resume payloads as JSON lines")
	return cmd
}

func (a *app) runList(cmd *cobra.Command, asJSON bool) error {
	settings, err := a.settings()
	if err != nil {
		return err
	}
	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	defer logging.Timed(a.logger, "list sessions")()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for batch, err := range finder.Gather(a.parser(), cwd, a.sourceParams(cmd, settings)) {
		if err != nil {
			return err
		}
		a.logger.Debug("batch gathered", "items", len(batch))
		for _, item := range batch {
			if asJSON {
				err = enc.Encode(item.Action)
			} else {
				err = writeLine(out, item.Word)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
