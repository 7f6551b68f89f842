// ccsession finds the Claude Code sessions of a project and resumes them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/davidpaquet/ccsession/internal/cmd"
	"github.com/davidpaquet/ccsession/internal/resume"
)

const version = "v0.3.0"

func main() {
	if err := cmd.Execute(version); err != nil {
		// Failed launches were already printed one line per session.
		if !errors.Is(err, resume.ErrResumeFailed) {
			fmt.Fprintln(os.Stderr, "ccsession:", err)
		}
		os.Exit(1)
	}
}
