package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

// outputFormat resolves --format. Without the flag, terminals get tables and
// pipes get JSON.
func (c *commandContext) outputFormat(cmd *cobra.Command) (outputFormat, error) {
	value := ""
	if c.formatFlag != nil {
		value = strings.ToLower(strings.TrimSpace(*c.formatFlag))
	}
	switch value {
	case "":
		if isTerminal(cmd.OutOrStdout()) {
			return formatTable, nil
		}
		return formatJSON, nil
	case string(formatTable), string(formatJSON), string(formatYAML):
		return outputFormat(value), nil
	default:
		return "", fmt.Errorf("unsupported --format %q (want table, json or yaml)", value)
	}
}

// writeStructured emits v in the machine-readable format, or returns false
// when the caller should render a table instead.
func (c *commandContext) writeStructured(cmd *cobra.Command, v any) (bool, error) {
	format, err := c.outputFormat(cmd)
	if err != nil {
		return true, err
	}
	switch format {
	case formatJSON:
		return true, writeJSON(cmd, v)
	case formatYAML:
		return true, writeYAML(cmd, v)
	default:
		return false, nil
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as a YAML document to the command's stdout.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
