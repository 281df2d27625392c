package cli

import (
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/snapshot"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect or clear the state kept between sessions",
		Long: `A snapshot holds the viewport and the measured node sizes of one canvas.
Commands that run frames restore it on start; view saves it on quit and
layout/preview save it with --save.`,
	}

	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotClearCommand())

	return cmd
}

// snapshotShowCommand creates the "snapshot show" subcommand.
func (c *CLI) snapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <canvas>",
		Short: "Print the stored snapshot of a canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := snapshot.Load(ctx, st.snapshots, st.keyer, args[0])
			if err != nil {
				return err
			}

			printKeyValue("Canvas", StyleHighlight.Render(snap.Canvas))
			printKeyValue("Revision", snap.Revision)
			printKeyValue("Saved", snap.SavedAt.Local().Format(time.DateTime))
			printKeyValue("Scale", strconv.FormatFloat(snap.Viewport.Scale, 'f', 3, 64))
			printKeyValue("Offset", fmtPoint(snap.Viewport.Offset))
			printKeyValue("Nodes", StyleNumber.Render(strconv.Itoa(len(snap.Nodes))))

			ids := make([]string, 0, len(snap.Nodes))
			for id := range snap.Nodes {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				n := snap.Nodes[id]
				printDetail("%s  title %s  inputs %s  outputs %s", id, fmtPoint(n.TitleSize), fmtPoint(n.InputsSize), fmtPoint(n.OutputsSize))
			}
			return nil
		},
	}
}

// snapshotClearCommand creates the "snapshot clear" subcommand.
func (c *CLI) snapshotClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <canvas>",
		Short: "Delete the stored snapshot of a canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := snapshot.Delete(ctx, st.snapshots, st.keyer, args[0]); err != nil {
				return err
			}
			printSuccess("Cleared snapshot of %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}
