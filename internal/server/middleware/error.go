package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/httpclient"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"go.uber.org/zap"
)

// DefaultRetryAfter is sent with 503 responses when the provider gave no hint.
const DefaultRetryAfter = "30"

// ErrorHandler renders the last handler error as an RFC 9457 document.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		problem := ProblemFor(err)
		if problem.Instance == "" {
			problem.Instance = GetRequestID(c)
		}

		if problem.Status == http.StatusServiceUnavailable {
			c.Header("Retry-After", retryAfter(err))
		}

		switch {
		case problem.Status >= 500:
			logger.Error("Request failed",
				zap.Int("status", problem.Status),
				zap.String("request_id", problem.Instance),
				zap.Error(err),
			)
		case problem.Log != nil:
			logger.Warn("Request rejected",
				zap.Int("status", problem.Status),
				zap.String("request_id", problem.Instance),
				zap.Error(problem.Log),
			)
		}

		c.Header("Content-Type", "application/problem+json")
		c.AbortWithStatusJSON(problem.Status, problem)
	}
}

// ProblemFor maps an error onto a problem document. Generation failures are
// mapped by kind; anything unrecognised is a 500 that hides the cause.
func ProblemFor(err error) *api.Problem {
	var problem *api.Problem
	if errors.As(err, &problem) {
		return problem
	}

	var ge *gateway.Error
	if !errors.As(err, &ge) {
		return api.Internal(err)
	}

	var p *api.Problem
	switch ge.Kind {
	case gateway.KindInput:
		detail := "The request was invalid"
		if ge.Err != nil {
			detail = ge.Err.Error()
		}
		p = api.NewProblem(http.StatusBadRequest, "Invalid Input", detail, api.WithType("input-validation"))
	case gateway.KindSafety:
		p = api.NewProblem(http.StatusUnprocessableEntity, "Content Blocked",
			"The AI provider declined to answer this request", api.WithType("safety-block"))
	case gateway.KindSchema:
		p = api.NewProblem(http.StatusUnprocessableEntity, "Invalid AI Response",
			"The AI response did not match the expected structure", api.WithType("schema-validation"))
	case gateway.KindTransient:
		p = api.NewProblem(http.StatusServiceUnavailable, "AI Provider Unavailable",
			"The AI provider is temporarily unavailable, please retry later", api.WithType("provider-unavailable"))
	case gateway.KindMalformed:
		p = api.NewProblem(http.StatusInternalServerError, "Malformed AI Response",
			"The AI provider returned an unreadable response", api.WithType("malformed-output"))
	default:
		p = api.Internal(err)
	}

	p.Log = err
	p.Extensions["category"] = ge.Kind.String()
	if ge.Field != "" {
		p.Extensions["field"] = ge.Field
	}
	if ge.Attempts > 0 {
		p.Extensions["attempts"] = ge.Attempts
	}
	return p
}

func retryAfter(err error) string {
	var ue *httpclient.UpstreamError
	if errors.As(err, &ue) && ue.RetryAfter != "" {
		return ue.RetryAfter
	}
	return DefaultRetryAfter
}
