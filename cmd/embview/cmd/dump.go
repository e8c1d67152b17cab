package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/text"
)

// newDumpCmd represents the dump command
func newDumpCmd() *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a file as an array",
		Long: `Print the contents of a file as an array of integers in text format.

Examples:
  embview dump data.bin
  embview dump data.bin --bits 16 --signed --order big
  embview dump data.bin --multiline --comments --base 16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := layoutFromFlags(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}

			v, err := layout.View(buffer.NewReadOnly(data))
			if err != nil {
				return err
			}
			if len(data)*8%layout.Bits != 0 {
				logger := container.Logger()
				logger.Warn().
					Int("bytes", len(data)).
					Str("layout", layout.String()).
					Msg("file does not hold a whole number of elements; trailing bits are not shown")
			}

			opts, err := textOptions(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text.WriteToString(v, opts))
			container.Metrics().RecordTextWrite(opts.Multiline())
			return nil
		},
	}

	addLayoutFlags(dumpCmd)
	addTextFlags(dumpCmd)
	return dumpCmd
}
