package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/storage"
	"github.com/ssargent/embview/pkg/text"
)

func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().Int("bits", 8, "Element width in bits (1-64)")
	cmd.Flags().Bool("signed", false, "Interpret elements as two's complement integers")
	cmd.Flags().String("order", "little", "Byte order of each element: little or big")
}

func layoutFromFlags(cmd *cobra.Command) (storage.Layout, error) {
	width, _ := cmd.Flags().GetInt("bits")
	signed, _ := cmd.Flags().GetBool("signed")
	order, _ := cmd.Flags().GetString("order")

	layout := storage.Layout{Bits: width, Signed: signed, Order: order}
	if order == "little" {
		layout.Order = ""
	}
	return layout, layout.Validate()
}

func addTextFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("multiline", false, "One element per line")
	cmd.Flags().Bool("comments", false, "Annotate multiline output with hex values and a byte preview")
	cmd.Flags().Int("base", 10, "Numeric base: 2, 10 or 16")
	cmd.Flags().String("indent", "  ", "Indent per nesting level")
	cmd.Flags().Bool("grouping", false, "Separate digit groups with underscores")
}

// textOptions starts from the configured text options and applies the flags
// the user set explicitly.
func textOptions(cmd *cobra.Command) (text.Options, error) {
	opts := container.Config().TextOptions()
	flags := cmd.Flags()
	if flags.Changed("multiline") {
		v, _ := flags.GetBool("multiline")
		opts = opts.WithMultiline(v)
	}
	if flags.Changed("comments") {
		v, _ := flags.GetBool("comments")
		opts = opts.WithComments(v)
	}
	if flags.Changed("base") {
		v, _ := flags.GetInt("base")
		switch v {
		case 2, 10, 16:
		default:
			return opts, errors.Newf("--base must be 2, 10 or 16, got %d", v)
		}
		opts = opts.WithNumericBase(v)
	}
	if flags.Changed("indent") {
		v, _ := flags.GetString("indent")
		opts = opts.WithIndent(v)
	}
	if flags.Changed("grouping") {
		v, _ := flags.GetBool("grouping")
		opts = opts.WithDigitGrouping(v)
	}
	return opts, nil
}
