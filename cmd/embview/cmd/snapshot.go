package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/codec"
	"github.com/ssargent/embview/pkg/storage"
	"github.com/ssargent/embview/pkg/text"
)

// newSnapshotCmd represents the snapshot command group
func newSnapshotCmd() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Keep copies of buffers in the local store",
		Long: `Store, inspect and restore snapshots of files. Each snapshot remembers
the element layout it was taken with and is checked against a CRC-32 when
read back.`,
	}

	snapshotCmd.AddCommand(
		newSnapshotPutCmd(),
		newSnapshotGetCmd(),
		newSnapshotListCmd(),
		newSnapshotRestoreCmd(),
		newSnapshotRmCmd(),
	)
	return snapshotCmd
}

func newSnapshotPutCmd() *cobra.Command {
	putCmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a snapshot of a file",
		Long: `Store a snapshot of a file and print its id.

Example:
  embview snapshot put header.bin --bits 16`,
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

			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = filepath.Base(args[0])
			}

			store, err := container.Store()
			if err != nil {
				return err
			}
			id, err := store.Put(storage.Snapshot{Name: name, Layout: layout, Data: data})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}

	addLayoutFlags(putCmd)
	putCmd.Flags().String("name", "", "Snapshot name (default: file name)")
	return putCmd
}

func newSnapshotGetCmd() *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a snapshot as an array",
		Long: `Print a snapshot in text format using the layout it was stored with.

Examples:
  embview snapshot get 2ZQ6... --multiline
  embview snapshot get 2ZQ6... --out copy.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := getSnapshot(args[0])
			if err != nil {
				return err
			}

			if out, _ := cmd.Flags().GetString("out"); out != "" {
				if err := os.WriteFile(out, snap.Data, 0600); err != nil {
					return errors.Wrapf(err, "write %s", out)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(snap.Data), out)
				return nil
			}

			v, err := snap.Layout.View(buffer.NewReadOnly(snap.Data))
			if err != nil {
				return err
			}
			opts, err := textOptions(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s %s %d bytes\n", snap.Name, snap.Layout, len(snap.Data))
			fmt.Fprintln(cmd.OutOrStdout(), text.WriteToString(v, opts))
			container.Metrics().RecordTextWrite(opts.Multiline())
			return nil
		},
	}

	addTextFlags(getCmd)
	getCmd.Flags().String("out", "", "Write the raw bytes to this file instead of printing")
	return getCmd
}

func newSnapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := container.Store()
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLAYOUT\tBYTES\tCREATED")
			for _, e := range entries {
				if e.Corrupt {
					fmt.Fprintf(w, "%s\t(corrupt)\t\t\t%s\n", e.ID, e.CreatedAt.Format(time.RFC3339))
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Name, e.Layout, e.Size, e.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newSnapshotRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id> <file>",
		Short: "Copy a snapshot back into an existing file",
		Long: `Copy a snapshot's bytes into an existing file of the same size. The file
is not modified when the sizes differ.

Example:
  embview snapshot restore 2ZQ6... header.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := getSnapshot(args[0])
			if err != nil {
				return err
			}

			name := args[1]
			info, err := os.Stat(name)
			if err != nil {
				return errors.Wrapf(err, "stat %s", name)
			}
			data, err := os.ReadFile(name)
			if err != nil {
				return errors.Wrapf(err, "read %s", name)
			}

			dst := codec.NewBytes(buffer.New(data))
			err = dst.CopyFromView(codec.NewBytes(buffer.NewReadOnly(snap.Data)))
			container.Metrics().RecordCopy(err == nil)
			if err != nil {
				return errors.Wrapf(err, "restore %s", name)
			}

			if err := os.WriteFile(name, data, info.Mode().Perm()); err != nil {
				return errors.Wrapf(err, "write %s", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", name, args[0])
			return nil
		},
	}
}

func newSnapshotRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid snapshot id %q", args[0])
			}
			store, err := container.Store()
			if err != nil {
				return err
			}
			if err := store.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func getSnapshot(arg string) (*storage.Snapshot, error) {
	id, err := ksuid.Parse(arg)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid snapshot id %q", arg)
	}
	store, err := container.Store()
	if err != nil {
		return nil, err
	}
	return store.Get(id)
}
