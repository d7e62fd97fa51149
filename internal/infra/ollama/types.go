package ollama

import "time"

// Model is one entry of GET /api/tags.
type Model struct {
	Name       string       `json:"name"`
	Model      string       `json:"model"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest,omitempty"`
	Details    ModelDetails `json:"details,omitzero"`
}

// RunningModel is one entry of GET /api/ps.
type RunningModel struct {
	Name      string       `json:"name"`
	Model     string       `json:"model"`
	Size      int64        `json:"size,omitempty"`
	SizeVRAM  int64        `json:"size_vram"`
	Digest    string       `json:"digest,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
	Details   ModelDetails `json:"details,omitzero"`
}

// ModelDetails describes the model format and size class.
type ModelDetails struct {
	Format            string `json:"format,omitempty"`
	Family            string `json:"family,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}

// GenerateRequest is the body of POST /api/generate. Stream is always sent
// because the server streams when it is omitted.
type GenerateRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Stream    bool   `json:"stream"`
	KeepAlive string `json:"keep_alive,omitempty"`
}

// GenerateResponse is the non-streamed reply of POST /api/generate.
type GenerateResponse struct {
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
	Response   string    `json:"response"`
	Done       bool      `json:"done"`
	DoneReason string    `json:"done_reason,omitempty"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

type psResponse struct {
	Models []RunningModel `json:"models"`
}

type versionResponse struct {
	Version string `json:"version"`
}
