package api

type SynthesizeRequest struct {
	Model string `json:"model,omitempty"`

	Text  string `json:"text"`
	Input string `json:"input,omitempty"`

	Voice string   `json:"voice,omitempty"`
	Speed *float32 `json:"speed,omitempty"`
}

type Transcription struct {
	Transcription string `json:"transcription"`
	Language      string `json:"language"`
}

type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`

	Models map[string]ModelStatus `json:"models,omitempty"`
}

type ModelStatus struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback,omitempty"`

	Active     string `json:"active"`
	Downgraded bool   `json:"downgraded"`
}

type MemoryStatus struct {
	Memory *Memory `json:"memory,omitempty"`

	Models map[string]ModelStatus `json:"models,omitempty"`
}

type Memory struct {
	Device   string  `json:"device"`
	Fraction float64 `json:"fraction,omitempty"`

	AllocatedGB float64 `json:"allocated_gb"`
	ReservedGB  float64 `json:"reserved_gb"`
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`

	UsagePercent float64 `json:"usage_percent"`
}
