package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddpsdk/internal/metadata"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <output-dir>",
		Short: "Check metadata.json and the track_NN.wav files in an output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			meta, err := metadata.ReadDir(dir)
			if err != nil {
				return err
			}
			files, verifyErr := metadata.VerifyTracks(dir, meta.TrackCount())

			if handled, err := ctx.writeStructured(cmd, map[string]any{
				"output":      dir,
				"track_count": meta.TrackCount(),
				"tracks":      files,
				"valid":       verifyErr == nil,
			}); handled {
				if err != nil {
					return err
				}
				return verifyErr
			}

			out := cmd.OutOrStdout()
			if len(files) > 0 {
				fmt.Fprint(out, trackFileTable(files))
				fmt.Fprintln(out)
			}
			if verifyErr != nil {
				return verifyErr
			}
			fmt.Fprintf(out, "%d of %d tracks verified\n", len(files), meta.TrackCount())
			return nil
		},
	}
}
