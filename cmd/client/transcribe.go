package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrianliechti/murmur/pkg/client"

	"github.com/spf13/cobra"
)

func newTranscribeCommand(newClient func() *client.Client) *cobra.Command {
	var model string
	var language string
	var prompt string
	var verbose bool

	cmd := &cobra.Command{
		Use:     "transcribe <file>",
		Aliases: []string{"stt"},
		Short:   "Turn an audio file into text",
		Args:    cobra.ExactArgs(1),
		Example: `murmur-client transcribe speech.wav --language ru`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])

			if err != nil {
				return err
			}

			defer f.Close()

			result, err := newClient().Transcriptions.New(cmd.Context(), client.TranscribeRequest{
				Model: model,

				Name:   filepath.Base(args[0]),
				Reader: f,

				TranscribeOptions: client.TranscribeOptions{
					Language: language,
					Prompt:   prompt,
				},
			})

			if err != nil {
				return err
			}

			if verbose {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)

				return enc.Encode(result)
			}

			cmd.Println(result.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "pipeline id")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language hint (en, ru, uk, auto)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "initial prompt")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print language and duration as JSON")

	return cmd
}
