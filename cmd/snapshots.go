package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	jsonrepo "github.com/khanhnv2901/netrax/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/spf13/cobra"
)

type graphSaver interface {
	Save(ctx context.Context, domain string, graph *sitegraph.Graph) (*jsonrepo.SnapshotInfo, error)
}

func saveGraph(ctx context.Context, saver graphSaver, domain string, g *sitegraph.Graph) (string, error) {
	info, err := saver.Save(ctx, domain, g)
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	return info.ID, nil
}

var snapshotFormat string

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List, show and delete stored site graphs",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := newSnapshotRepository(getAppContext(cmd))
		if err != nil {
			return err
		}
		items, err := repo.List(commandContext(cmd))
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s No snapshots in %s\n", colorInfo("→"), repo.Dir())
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Domain", "Created", "Nodes", "Links"})
		for _, item := range items {
			t.AppendRow(table.Row{item.ID, item.Domain, item.CreatedAt.Format(time.RFC3339), item.NodeCount, item.LinkCount})
		}
		t.Render()
		return nil
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseOutputFormat(snapshotFormat)
		if err != nil {
			return err
		}
		repo, err := newSnapshotRepository(getAppContext(cmd))
		if err != nil {
			return err
		}
		snap, err := repo.Load(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return graphRenderer{Format: format}.Render(cmd.OutOrStdout(), snap.Domain, snap.Graph)
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := newSnapshotRepository(getAppContext(cmd))
		if err != nil {
			return err
		}
		if err := repo.Delete(commandContext(cmd), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted snapshot %s\n", colorSuccess("✓"), args[0])
		return nil
	},
}

func init() {
	snapshotsShowCmd.Flags().StringVarP(&snapshotFormat, "format", "f", formatJSON, "output format: json, table or dot")
	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsShowCmd, snapshotsDeleteCmd)
}
