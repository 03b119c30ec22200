package oracle

import "sort"

// Provider identifies a generation backend implementation.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ModelInfo describes one selectable backend model.
type ModelInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Provider    Provider `json:"provider"`
	APIModel    string   `json:"apiModel"`
	Description string   `json:"description"`
	CostTier    string   `json:"costTier"`
	IsDefault   bool     `json:"isDefault,omitempty"`
}

var models = map[string]ModelInfo{
	"claude-3-5-sonnet": {
		ID:          "claude-3-5-sonnet",
		Name:        "Claude 3.5 Sonnet",
		Provider:    ProviderAnthropic,
		APIModel:    "claude-3-5-sonnet-20241022",
		Description: "Strong reasoning and precision",
		CostTier:    "high",
	},
	"claude-3-5-haiku": {
		ID:          "claude-3-5-haiku",
		Name:        "Claude 3.5 Haiku",
		Provider:    ProviderAnthropic,
		APIModel:    "claude-3-5-haiku-20241022",
		Description: "Fast and economical",
		CostTier:    "low",
	},
	"gemini-2.0-flash": {
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Provider:    ProviderGemini,
		APIModel:    "gemini-2.0-flash-exp",
		Description: "Fast multimodal default",
		CostTier:    "low",
		IsDefault:   true,
	},
	"gemini-1.5-pro": {
		ID:          "gemini-1.5-pro",
		Name:        "Gemini 1.5 Pro",
		Provider:    ProviderGemini,
		APIModel:    "gemini-1.5-pro",
		Description: "Complex reasoning, large context",
		CostTier:    "high",
	},
	"gemini-1.5-flash": {
		ID:          "gemini-1.5-flash",
		Name:        "Gemini 1.5 Flash",
		Provider:    ProviderGemini,
		APIModel:    "gemini-1.5-flash",
		Description: "Fast and reliable for everyday runs",
		CostTier:    "low",
	},
}

// DefaultModel returns the catalog's default model.
func DefaultModel() ModelInfo {
	for _, m := range models {
		if m.IsDefault {
			return m
		}
	}
	// Unreachable while the catalog carries a default entry.
	return models["gemini-2.0-flash"]
}

// ModelByID looks up a model by its catalog ID.
func ModelByID(id string) (ModelInfo, bool) {
	m, ok := models[id]
	return m, ok
}

// AllModels returns the catalog sorted by ID.
func AllModels() []ModelInfo {
	out := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ModelsByProvider groups the catalog by provider.
func ModelsByProvider() map[Provider][]ModelInfo {
	grouped := make(map[Provider][]ModelInfo)
	for _, m := range AllModels() {
		grouped[m.Provider] = append(grouped[m.Provider], m)
	}
	return grouped
}
