package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/addrwatch/internal/api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity, cursor and feed status of a running instance",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var state api.StateResponse
	if err := newAPIClient(apiURL).do(ctx, "GET", "/v1/state", nil, &state); err != nil {
		slog.Error("Failed to fetch state", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintf(w, "STATUS\t%s\n", state.Status)
	_, _ = fmt.Fprintf(w, "HEIGHT\t%d\n", state.LastKnownHeight)
	_, _ = fmt.Fprintf(w, "CURSOR\t%d\n", state.Cursor)
	_, _ = fmt.Fprintf(w, "SCAN STATE\t%s\n", state.ScanState)
	_, _ = fmt.Fprintf(w, "WATCHED\t%d\n", state.Watched)
	_, _ = fmt.Fprintf(w, "ALERTS\t%d\n", state.Alerts)
	if !state.CheckedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "CHECKED\t%s\n", state.CheckedAt.Format(time.RFC3339))
	}
	if state.RPC != nil {
		_, _ = fmt.Fprintf(w, "RPC\tavailable=%t failures=%d avg_latency=%s\n",
			state.RPC.Available, state.RPC.ConsecutiveFailures, state.RPC.AvgLatency)
	}
	_ = w.Flush()
}
