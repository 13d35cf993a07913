package factory

import (
	"fmt"

	"market-insights-be/pkg/llm"
	"market-insights-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
