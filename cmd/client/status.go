package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/adrianliechti/murmur/pkg/client"

	"github.com/spf13/cobra"
)

func newStatusCommand(newClient func() *client.Client) *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show memory usage and active models",
		Args:    cobra.NoArgs,
		Example: `murmur-client status --watch 5s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()

			if watch <= 0 {
				return printStatus(cmd.Context(), c, cmd.OutOrStdout())
			}

			ticker := time.NewTicker(watch)
			defer ticker.Stop()

			for {
				if err := printStatus(cmd.Context(), c, cmd.OutOrStdout()); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "error:", err)
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&watch, "watch", "w", 0, "refresh interval")

	return cmd
}

func printStatus(ctx context.Context, c *client.Client, w io.Writer) error {
	status, err := c.Status.Memory(ctx)

	if err != nil {
		return err
	}

	fmt.Fprintf(w, "[%s]\n", time.Now().Format(time.TimeOnly))

	if m := status.Memory; m != nil {
		fmt.Fprintf(w, "memory (%s): %.2f GB allocated, %.2f GB reserved, %.2f GB total, %.1f%% used\n",
			m.Device, m.AllocatedGB, m.ReservedGB, m.TotalGB, m.UsagePercent)
	}

	ids := make([]string, 0, len(status.Models))

	for id := range status.Models {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		m := status.Models[id]

		line := fmt.Sprintf("%s: %s", id, m.Active)

		if m.Downgraded {
			line += fmt.Sprintf(" (downgraded from %s)", m.Primary)
		}

		fmt.Fprintln(w, line)
	}

	return nil
}
