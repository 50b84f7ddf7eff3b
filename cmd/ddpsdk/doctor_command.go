package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ddpsdk/internal/preflight"
)

type doctorReport struct {
	Checks  []preflight.Result `json:"checks" yaml:"checks"`
	Healthy bool               `json:"healthy" yaml:"healthy"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the engine, API key and working directories are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			checks := preflight.RunAll(cfg)
			healthy := len(preflight.Failed(checks)) == 0
			var unhealthy error
			if !healthy {
				unhealthy = errors.New("doctor: one or more checks failed")
			}

			if handled, err := ctx.writeStructured(cmd, doctorReport{
				Checks:  checks,
				Healthy: healthy,
			}); handled {
				if err != nil {
					return err
				}
				return unhealthy
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			fmt.Fprintln(out, renderSectionHeader("Checks"))
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			passed := len(checks) - len(preflight.Failed(checks))
			fmt.Fprintln(out, renderStatusLine("Summary", statusInfo, fmt.Sprintf("%d of %d checks passed", passed, len(checks)), colorize))
			return unhealthy
		},
	}
}
