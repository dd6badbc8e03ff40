package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// jsonFlags adds --json and --output to a command.
type jsonFlags struct {
	print  bool
	output string
}

func (f *jsonFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.print, "json", false, "print pretty JSON instead of tables")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write pretty JSON to this file instead of tables")
}

func (f jsonFlags) enabled() bool {
	return f.print || f.output != ""
}

// write encodes v to the output file when set, otherwise to w.
func (f jsonFlags) write(w io.Writer, v any) error {
	if f.output == "" {
		return encodeJSON(w, v)
	}
	out, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := encodeJSON(out, v); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
