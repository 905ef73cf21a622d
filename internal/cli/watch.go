package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the watch-list of a running instance",
}

var watchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched addresses",
	Args:  cobra.NoArgs,
	Run:   runWatchList,
}

var watchAddCmd = &cobra.Command{
	Use:   "add [address] [label]",
	Short: "Watch an address",
	Args:  cobra.RangeArgs(1, 2),
	Run:   runWatchAdd,
}

var watchRemoveCmd = &cobra.Command{
	Use:   "remove [address]",
	Short: "Stop watching an address (every entry for it)",
	Args:  cobra.ExactArgs(1),
	Run:   runWatchRemove,
}

func init() {
	watchCmd.AddCommand(watchListCmd, watchAddCmd, watchRemoveCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatchList(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var entries []domain.WatchedAddress
	if err := newAPIClient(apiURL).do(ctx, "GET", "/v1/watchlist", nil, &entries); err != nil {
		slog.Error("Failed to list watch-list", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "ADDRESS\tLABEL\tSTATUS\tLAST ACTIVE")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Address, e.Label, e.Status, e.LastActiveBlock)
	}
	_ = w.Flush()
}

func runWatchAdd(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body := map[string]string{"address": args[0]}
	if len(args) == 2 {
		body["label"] = args[1]
	}

	var entry domain.WatchedAddress
	if err := newAPIClient(apiURL).do(ctx, "POST", "/v1/watchlist", body, &entry); err != nil {
		slog.Error("Failed to add address", "address", args[0], "error", err)
		os.Exit(1)
	}
	fmt.Printf("Watching %s (%s)\n", entry.Address, entry.Label)
}

func runWatchRemove(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var resp struct {
		Removed int `json:"removed"`
	}
	path := "/v1/watchlist/" + url.PathEscape(args[0])
	if err := newAPIClient(apiURL).do(ctx, "DELETE", path, nil, &resp); err != nil {
		slog.Error("Failed to remove address", "address", args[0], "error", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d entries for %s\n", resp.Removed, args[0])
}
