package client

import (
	"context"

	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/openai/openai-go/v3"
)

type ModelService struct {
	Options []RequestOption
}

func NewModelService(opts ...RequestOption) ModelService {
	return ModelService{
		Options: opts,
	}
}

type Model = provider.Model

// List returns the synthesizer and transcriber pipelines of the server.
func (r *ModelService) List(ctx context.Context, opts ...RequestOption) ([]Model, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	models := openai.NewModelService(cfg.openaiOptions()...)

	page, err := models.List(ctx)

	if err != nil {
		return nil, err
	}

	result := make([]Model, 0, len(page.Data))

	for _, m := range page.Data {
		result = append(result, Model{
			ID: m.ID,
		})
	}

	return result, nil
}

func (r *ModelService) Get(ctx context.Context, id string, opts ...RequestOption) (*Model, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	models := openai.NewModelService(cfg.openaiOptions()...)

	m, err := models.Get(ctx, id)

	if err != nil {
		return nil, err
	}

	return &Model{
		ID: m.ID,
	}, nil
}
