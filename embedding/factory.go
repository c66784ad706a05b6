package embedding

import (
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderHashing     = "hashing"
	ProviderOllama      = "ollama"
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
)

// Config selects and configures a Model.
type Config struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
	Timeout    time.Duration
	// CacheSize enables an in-memory cache when positive.
	CacheSize int
}

// New builds the configured model.
func New(cfg Config) (Model, error) {
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}
	var model Model
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderHashing:
		model = NewHashing(dims)
	case ProviderOllama:
		model = NewOllama(cfg.BaseURL, cfg.Model, dims, cfg.Timeout)
	case ProviderOpenAI:
		m, err := NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, dims)
		if err != nil {
			return nil, err
		}
		model = m
	case ProviderHuggingFace:
		model = NewHuggingFace(cfg.APIKey, cfg.Model, dims)
	default:
		return nil, fmt.Errorf("embedding: unsupported provider %q", cfg.Provider)
	}
	if cfg.CacheSize > 0 {
		model = NewCached(model, cfg.CacheSize)
	}
	return model, nil
}
