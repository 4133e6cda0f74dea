package exec

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/model"
)

var _ model.Transcriber = (*Whisper)(nil)

// whisperSampleRate is the only rate whisper.cpp accepts for WAV input.
const whisperSampleRate = 16000

// Whisper runs the whisper.cpp command line tool on the staged upload.
type Whisper struct {
	*Config
}

func NewWhisper(bin string, options ...Option) (*Whisper, error) {
	if bin == "" {
		bin = "whisper-cli"
	}

	cfg := &Config{
		bin: bin,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Whisper{
		Config: cfg,
	}, nil
}

func (w *Whisper) Transcribe(ctx context.Context, name string, input model.Input, options *model.TranscribeOptions) (*model.Transcript, error) {
	if options == nil {
		options = new(model.TranscribeOptions)
	}

	path, cleanup, err := w.prepare(input)

	if err != nil {
		return nil, err
	}

	defer cleanup()

	language := options.Language

	if language == "" {
		language = "auto"
	}

	args := []string{"-m", w.modelPath(name), "-f", path, "-l", language, "-nt"}

	if options.Prompt != "" {
		args = append(args, "--prompt", options.Prompt)
	}

	if options.Temperature != nil {
		args = append(args, "-tp", strconv.FormatFloat(float64(*options.Temperature), 'f', 2, 32))
	}

	args = append(args, w.args...)

	data, err := run(ctx, w.bin, nil, args...)

	if err != nil {
		return nil, err
	}

	var lines []string

	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return &model.Transcript{
		Text:     strings.Join(lines, " "),
		Language: options.Language,
	}, nil
}

// prepare converts WAV uploads to 16 kHz. Other containers are passed on as
// staged.
func (w *Whisper) prepare(input model.Input) (string, func(), error) {
	noop := func() {}

	if !audio.IsWAV(input.Content) {
		return input.Path, noop, nil
	}

	wave, err := audio.DecodeWAV(bytes.NewReader(input.Content))

	if err != nil || wave.SampleRate == whisperSampleRate {
		return input.Path, noop, nil
	}

	resampled, err := audio.Resample(*wave, whisperSampleRate)

	if err != nil {
		return "", noop, err
	}

	data, err := audio.EncodeWAV(resampled)

	if err != nil {
		return "", noop, err
	}

	f, err := os.CreateTemp("", "whisper-*.wav")

	if err != nil {
		return "", noop, err
	}

	path := f.Name()
	cleanup := func() { os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()

		return "", noop, err
	}

	if err := f.Close(); err != nil {
		cleanup()
		return "", noop, err
	}

	return path, cleanup, nil
}
