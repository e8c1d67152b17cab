package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/codec"
	"github.com/ssargent/embview/pkg/crc"
)

// newCrcCmd represents the crc command
func newCrcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crc <file>...",
		Short: "Print the CRC-32 of files",
		Long: `Print the IEEE CRC-32 of each file, one "0x%08x  name" line per file.

Example:
  embview crc firmware.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				data, err := os.ReadFile(name)
				if err != nil {
					return errors.Wrapf(err, "read %s", name)
				}

				sum, err := crc.Crc32(codec.NewBytes(buffer.New(data)))
				if err != nil {
					return err
				}
				container.Metrics().RecordChecksum(len(data))

				fmt.Fprintf(cmd.OutOrStdout(), "0x%08x  %s\n", sum, name)
			}
			return nil
		},
	}
}
