package config

import "os"

// AIConfig holds settings for the completion/embedding provider.
// A missing API key is not an error: the analysis pipeline runs on its
// local heuristics instead.
type AIConfig struct {
	APIKey         string `json:"-"` // Never serialize
	BaseURL        string `json:"baseUrl"`
	ChatModel      string `json:"chatModel"`
	EmbeddingModel string `json:"embeddingModel"`
	TimeoutMS      int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the provider configuration from the environment.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:         os.Getenv("OPENAI_API_KEY"),
		BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		TimeoutMS:      getEnvInt("OPENAI_TIMEOUT_MS", 10000),
	}
}

// IsEnabled returns true if the provider is configured.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// VectorConfig holds settings for the managed vector store.
// Without an API key the service falls back to the in-process store.
type VectorConfig struct {
	APIKey          string `json:"-"`
	IndexHost       string `json:"indexHost"`
	NamespacePrefix string `json:"namespacePrefix"`
	TimeoutMS       int    `json:"timeoutMs"`
}

// DefaultVectorConfig returns the vector store configuration from the environment.
func DefaultVectorConfig() *VectorConfig {
	return &VectorConfig{
		APIKey:          os.Getenv("PINECONE_API_KEY"),
		IndexHost:       os.Getenv("PINECONE_INDEX_HOST"),
		NamespacePrefix: getEnv("PINECONE_NAMESPACE_PREFIX", "manova"),
		TimeoutMS:       getEnvInt("PINECONE_TIMEOUT_MS", 30000),
	}
}

// IsEnabled returns true if the managed vector store is configured.
func (c *VectorConfig) IsEnabled() bool {
	return c.APIKey != "" && c.IndexHost != ""
}
