package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ddpsdk/internal/fileset"
	"ddpsdk/internal/metadata"
	"ddpsdk/internal/services/ddp"
)

// operationResult is what process and process-bytes print.
type operationResult struct {
	Output     string               `json:"output,omitempty" yaml:"output,omitempty"`
	TrackCount int                  `json:"track_count" yaml:"track_count"`
	Metadata   metadata.Metadata    `json:"metadata" yaml:"metadata"`
	Tracks     []metadata.TrackFile `json:"verified_tracks,omitempty" yaml:"verified_tracks,omitempty"`
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "process <input> <output-dir>",
		Short: "Extract WAV tracks and metadata.json from a DDP directory or archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ddp.Client) error {
				meta, err := client.Process(cmd.Context(), args[0], args[1], ctx.apiKey())
				if err != nil {
					return err
				}
				return ctx.reportOperation(cmd, ddp.NormalizeOutputPath(args[1]), meta, verify)
			})
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the written WAV files after processing")
	return cmd
}

func newProcessBytesCommand(ctx *commandContext) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "process-bytes <ddp-dir> <output-dir>",
		Short: "Load DDP files into memory and process them through a private staging directory",
		Long: `Load the recognised DDP files (DDPID, PQDESCR, SD.SD, DDPMS, DDPMS.DAT,
IMAGE.DAT, CDTEXT.BIN) from a directory into memory, then hand them to the
engine through a freshly staged temporary directory that is removed afterwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := fileset.Load(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ddp.Client) error {
				meta, err := client.ProcessFromBytes(cmd.Context(), files, args[1], ctx.apiKey())
				if err != nil {
					return err
				}
				return ctx.reportOperation(cmd, ddp.NormalizeOutputPath(args[1]), meta, verify)
			})
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the written WAV files after processing")
	return cmd
}

func newJSONCommand(ctx *commandContext) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "json <input>",
		Short: "Extract metadata only, without writing audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []ddp.JSONOption
			if outputFile != "" {
				opts = append(opts, ddp.WithOutputFile(outputFile))
			}
			return ctx.withClient(func(client *ddp.Client) error {
				meta, err := client.ProcessToJSON(cmd.Context(), args[0], ctx.apiKey(), opts...)
				if err != nil {
					return err
				}
				if handled, err := ctx.writeStructured(cmd, meta); handled {
					return err
				}
				printTracks(cmd, meta)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Ask the engine to write metadata to this file")
	return cmd
}

func (c *commandContext) reportOperation(cmd *cobra.Command, outputDir string, meta metadata.Metadata, verify bool) error {
	result := operationResult{
		Output:     outputDir,
		TrackCount: meta.TrackCount(),
		Metadata:   meta,
	}
	var verifyErr error
	if verify {
		result.Tracks, verifyErr = metadata.VerifyTracks(outputDir, meta.TrackCount())
	}

	if handled, err := c.writeStructured(cmd, result); handled {
		if err != nil {
			return err
		}
		return verifyErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Output directory: %s\n\n", outputDir)
	printTracks(cmd, meta)
	if verify && verifyErr == nil {
		fmt.Fprintf(out, "\nVerified %d WAV files\n", len(result.Tracks))
	}
	return verifyErr
}

func printTracks(cmd *cobra.Command, meta metadata.Metadata) {
	out := cmd.OutOrStdout()
	if meta.TrackCount() == 0 {
		fmt.Fprintln(out, "No tracks reported")
		return
	}
	fmt.Fprint(out, trackTable(meta))
}

func compactJSON(v any, width int) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	text := string(raw)
	if width > 3 && len(text) > width {
		return text[:width-3] + "..."
	}
	return text
}
