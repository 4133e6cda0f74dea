package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/adrianliechti/murmur/pkg/client"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var url string
	var token string

	cmd := &cobra.Command{
		Use:          "murmur-client",
		Short:        "Talk to a murmur speech server",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&url, "url", envOr("MURMUR_URL", "http://localhost:8080"), "server url")
	cmd.PersistentFlags().StringVar(&token, "token", os.Getenv("MURMUR_TOKEN"), "server token")

	newClient := func() *client.Client {
		var options []client.RequestOption

		if token != "" {
			options = append(options, client.WithToken(token))
		}

		return client.New(url, options...)
	}

	cmd.AddCommand(
		newSynthesizeCommand(newClient),
		newTranscribeCommand(newClient),
		newModelsCommand(newClient),
		newStatusCommand(newClient),
	)

	return cmd
}

func newModelsCommand(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, err := newClient().Models.List(cmd.Context())

			if err != nil {
				return err
			}

			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m.ID)
			}

			return nil
		},
	}
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
