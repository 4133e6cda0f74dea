package openai

// https://platform.openai.com/docs/api-reference/audio/createSpeech
type SpeechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`

	// Text is accepted as an alias of Input.
	Text string `json:"text,omitempty"`

	Voice string   `json:"voice,omitempty"`
	Speed *float32 `json:"speed,omitempty"`

	Instructions string `json:"instructions,omitempty"`

	ResponseFormat string `json:"response_format,omitempty"`
}

// https://platform.openai.com/docs/api-reference/audio/json-object
type Transcription struct {
	Text string `json:"text"`

	Language string `json:"language,omitempty"`
}

// https://platform.openai.com/docs/api-reference/audio/verbose-json-object
type VerboseTranscription struct {
	Task string `json:"task"`

	Language string  `json:"language"`
	Duration float64 `json:"duration"`

	Text string `json:"text"`
}

// https://platform.openai.com/docs/api-reference/models/object
type Model struct {
	Object string `json:"object"` // "model"

	ID      string `json:"id"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// https://platform.openai.com/docs/api-reference/models
type ModelList struct {
	Object string `json:"object"` // "list"

	Models []Model `json:"data"`
}
