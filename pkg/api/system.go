package api

type HealthResponse struct {
	Status       string   `json:"status"`
	Service      string   `json:"service"`
	Version      string   `json:"version"`
	Features     []string `json:"features"`
	CachedModels []string `json:"cached_models"`
}

// Feature describes one AI endpoint for client discovery.
type Feature struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Method      string   `json:"method"`
	Endpoint    string   `json:"endpoint"`
	Input       []string `json:"input"`
	Model       string   `json:"model"`
}

type FeaturesResponse struct {
	Features []Feature `json:"features"`
	Personas []string  `json:"personas"`
}
