package main

import (
	"bufio"
	"context"
	"io"
	"mime"
	"os"
	"strings"

	"github.com/adrianliechti/murmur/pkg/client"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type synthesizeFlags struct {
	model  string
	voice  string
	format string
	output string

	speed float32
}

func newSynthesizeCommand(newClient func() *client.Client) *cobra.Command {
	var flags synthesizeFlags

	cmd := &cobra.Command{
		Use:     "synthesize [text]",
		Aliases: []string{"tts"},
		Short:   "Turn text into speech",
		Long:    "Synthesizes the given text into a file. Without text, reads lines interactively and writes one file per line.",
		Args:    cobra.MaximumNArgs(1),
		Example: `murmur-client synthesize "Привет, мир" -o hello.wav`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()

			if len(args) == 0 {
				return synthesizeInteractive(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout(), flags)
			}

			name, err := synthesize(cmd.Context(), c, args[0], flags.output, flags)

			if err != nil {
				return err
			}

			cmd.Println("Saved " + name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "pipeline id")
	cmd.Flags().StringVar(&flags.voice, "voice", "", "voice")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "wav", "response format (wav, pcm)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file")
	cmd.Flags().Float32Var(&flags.speed, "speed", 0, "speaking speed")

	return cmd
}

func synthesize(ctx context.Context, c *client.Client, text, name string, flags synthesizeFlags) (string, error) {
	req := client.SynthesizeRequest{
		Model: flags.model,
		Input: text,

		SynthesizeOptions: client.SynthesizeOptions{
			Voice:  flags.voice,
			Format: flags.format,
		},
	}

	if flags.speed > 0 {
		req.Speed = client.Ptr(flags.speed)
	}

	result, err := c.Syntheses.New(ctx, req)

	if err != nil {
		return "", err
	}

	if name == "" {
		name = uuid.New().String()

		if ext, _ := mime.ExtensionsByType(result.ContentType); len(ext) > 0 {
			name += ext[0]
		} else {
			name += "." + flags.format
		}
	}

	if err := os.WriteFile(name, result.Content, 0o600); err != nil {
		return "", err
	}

	return name, nil
}

func synthesizeInteractive(ctx context.Context, c *client.Client, input io.Reader, output io.Writer, flags synthesizeFlags) error {
	reader := bufio.NewReader(input)

	for {
		io.WriteString(output, ">>> ")

		line, err := reader.ReadString('\n')

		if err != nil {
			if err == io.EOF {
				return nil
			}

			return err
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		name, err := synthesize(ctx, c, line, "", flags)

		if err != nil {
			io.WriteString(output, err.Error()+"\n")
			continue
		}

		io.WriteString(output, "Saved "+name+"\n\n")
	}
}
