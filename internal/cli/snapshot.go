package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "List, save and restore configuration snapshots of a running instance",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snapshot history, oldest first",
	Args:  cobra.NoArgs,
	Run:   runSnapshotList,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current configuration as a snapshot (auto-named when name is omitted)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSnapshotSave,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore [snapshot_id]",
	Short: "Make a snapshot's configuration current",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotRestore,
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd, snapshotSaveCmd, snapshotRestoreCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotList(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var history []domain.Snapshot
	if err := newAPIClient(apiURL).do(ctx, "GET", "/v1/snapshots", nil, &history); err != nil {
		slog.Error("Failed to list snapshots", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCREATED\tENDPOINT\tTHRESHOLD\tINTERVAL")
	for _, s := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%dms\n",
			s.ID,
			s.Name,
			s.CreatedAt.Format(time.RFC3339),
			s.Configuration.RPCEndpoint,
			s.Configuration.WhaleThresholdNative.String(),
			s.Configuration.ScanIntervalMs,
		)
	}
	_ = w.Flush()
}

func runSnapshotSave(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body := map[string]string{}
	if len(args) == 1 {
		body["name"] = strings.TrimSpace(args[0])
	}

	var snap domain.Snapshot
	if err := newAPIClient(apiURL).do(ctx, "POST", "/v1/snapshots", body, &snap); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Saved snapshot %q (%s)\n", snap.Name, snap.ID)
}

func runSnapshotRestore(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var snap domain.Snapshot
	path := "/v1/snapshots/" + args[0] + "/restore"
	if err := newAPIClient(apiURL).do(ctx, "POST", path, nil, &snap); err != nil {
		slog.Error("Failed to restore snapshot", "id", args[0], "error", err)
		os.Exit(1)
	}
	fmt.Printf("Restored snapshot %q (%s)\n", snap.Name, snap.ID)
}
