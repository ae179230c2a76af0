package v1

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/pkg/api"
)

// ModelLister reports which model handles are warm.
type ModelLister interface {
	Models() []string
}

type HealthHandler struct {
	service  string
	version  string
	features func() []string
	models   ModelLister
}

func NewHealthHandler(service, version string, features func() []string, models ModelLister) *HealthHandler {
	return &HealthHandler{service: service, version: version, features: features, models: models}
}

func (h *HealthHandler) Health(c *gin.Context) {
	resp := api.HealthResponse{
		Status:       "ok",
		Service:      h.service,
		Version:      h.version,
		Features:     []string{},
		CachedModels: []string{},
	}
	if h.features != nil {
		resp.Features = h.features()
	}
	if h.models != nil {
		resp.CachedModels = h.models.Models()
		sort.Strings(resp.CachedModels)
	}
	c.JSON(http.StatusOK, resp)
}
