package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/internal/culinary"
	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/server/validator"
	"github.com/huy11113/cinetaste-ai/pkg/api"
)

// DishService is the set of AI use cases served under /api/ai.
type DishService interface {
	AnalyzeDish(ctx context.Context, in culinary.AnalyzeDishInput) (*api.DishAnalysis, error)
	ModifyRecipe(ctx context.Context, req api.ModifyRecipeRequest) (*api.ModifiedRecipe, error)
	CreateByTheme(ctx context.Context, req api.CreateByThemeRequest) (*api.ThemedDish, error)
	CritiqueDish(ctx context.Context, in culinary.CritiqueDishInput) (*api.Critique, error)
	Features() api.FeaturesResponse
}

type DishHandler struct {
	service  DishService
	maxBytes int64
}

// NewDishHandler builds the handler. maxBytes caps how much of an upload is
// read; the service rejects anything larger.
func NewDishHandler(service DishService, maxBytes int64) *DishHandler {
	return &DishHandler{service: service, maxBytes: maxBytes}
}

func (h *DishHandler) AnalyzeDish(c *gin.Context) {
	var form api.AnalyzeDishForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(api.ValidationProblem(validator.ParseValidationError(err)))
		return
	}

	data, mimeType, err := h.readImage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.service.AnalyzeDish(c.Request.Context(), culinary.AnalyzeDishInput{
		Image:    data,
		MIMEType: mimeType,
		Context:  form.Context,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishHandler) ModifyRecipe(c *gin.Context) {
	var req api.ModifyRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationProblem(validator.ParseValidationError(err)))
		return
	}

	resp, err := h.service.ModifyRecipe(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishHandler) CreateByTheme(c *gin.Context) {
	var req api.CreateByThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationProblem(validator.ParseValidationError(err)))
		return
	}

	resp, err := h.service.CreateByTheme(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishHandler) CritiqueDish(c *gin.Context) {
	var form api.CritiqueDishForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(api.ValidationProblem(validator.ParseValidationError(err)))
		return
	}

	data, mimeType, err := h.readImage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.service.CritiqueDish(c.Request.Context(), culinary.CritiqueDishInput{
		Image:    data,
		MIMEType: mimeType,
		DishName: form.DishName,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishHandler) Features(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Features())
}

// readImage reads the "image" part, at most maxBytes+1 bytes so oversize
// uploads are still detected without buffering them whole.
func (h *DishHandler) readImage(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", gateway.InputError("image", errors.New("image is required"))
		}
		return nil, "", gateway.InputError("image", fmt.Errorf("reading upload: %w", err))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", gateway.InputError("image", fmt.Errorf("opening upload: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return nil, "", gateway.InputError("image", fmt.Errorf("reading upload: %w", err))
	}
	return data, fh.Header.Get("Content-Type"), nil
}
