package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/text"
)

// newApplyCmd represents the apply command
func newApplyCmd() *cobra.Command {
	applyCmd := &cobra.Command{
		Use:   "apply <file> <text>",
		Short: "Edit a file with array text",
		Long: `Parse <text> as an array and write the elements it names into the file.

Elements not mentioned keep their values. Use "-" as <text> to read it
from standard input, for example the output of dump after editing.

Examples:
  embview apply data.bin '{ [4]: 0xff, 0x10 }'
  embview dump data.bin --multiline > data.txt
  embview apply data.bin - < data.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := layoutFromFlags(cmd)
			if err != nil {
				return err
			}

			name := args[0]
			info, err := os.Stat(name)
			if err != nil {
				return errors.Wrapf(err, "stat %s", name)
			}
			data, err := os.ReadFile(name)
			if err != nil {
				return errors.Wrapf(err, "read %s", name)
			}

			input := args[1]
			if input == "-" {
				raw, err := readAll(cmd)
				if err != nil {
					return err
				}
				input = raw
			}

			v, err := layout.View(buffer.New(data))
			if err != nil {
				return err
			}

			ok := text.UpdateFromText(v, input)
			container.Metrics().RecordTextUpdate(ok)
			if !ok {
				// Elements before the failure may have been updated in
				// memory; the file is left alone.
				return errors.Newf("could not apply text to %s as %s", name, layout)
			}

			if err := os.WriteFile(name, data, info.Mode().Perm()); err != nil {
				return errors.Wrapf(err, "write %s", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", name)
			return nil
		},
	}

	addLayoutFlags(applyCmd)
	return applyCmd
}

func readAll(cmd *cobra.Command) (string, error) {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "read stdin")
	}
	return string(raw), nil
}
