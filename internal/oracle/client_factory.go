package oracle

import (
	"fmt"

	"choreflow/internal/config"
)

// NewClientForModel resolves a catalog model ID (empty means the default)
// and builds the matching provider client using the keys from cfg. A model
// whose provider has no configured key is a configuration error; nothing
// here retries.
func NewClientForModel(cfg *config.UserConfig, modelID string) (Client, ModelInfo, error) {
	model := DefaultModel()
	if modelID != "" {
		m, ok := ModelByID(modelID)
		if !ok {
			return nil, ModelInfo{}, fmt.Errorf("%w: unknown model %q", ErrConfiguration, modelID)
		}
		model = m
	}

	switch model.Provider {
	case ProviderAnthropic:
		key := cfg.AnthropicKey()
		if key == "" {
			return nil, ModelInfo{}, fmt.Errorf("%w: model %s needs an Anthropic API key (set anthropic_api_key or ANTHROPIC_API_KEY)", ErrConfiguration, model.ID)
		}
		client := NewAnthropicClient(key)
		client.SetModel(model.APIModel)
		return client, model, nil

	case ProviderGemini:
		key := cfg.GeminiKey()
		if key == "" {
			return nil, ModelInfo{}, fmt.Errorf("%w: model %s needs a Gemini API key (set gemini_api_key or GEMINI_API_KEY)", ErrConfiguration, model.ID)
		}
		client, err := NewGeminiClient(key, model.APIModel)
		if err != nil {
			return nil, ModelInfo{}, err
		}
		return client, model, nil

	default:
		return nil, ModelInfo{}, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, model.Provider)
	}
}

// NewClientFromConfig builds a client for the config's active provider,
// honoring a model override from the config file.
func NewClientFromConfig(cfg *config.UserConfig) (Client, ModelInfo, error) {
	return NewClientForModel(cfg, cfg.Model)
}
