package api

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

const problemBase = "https://cinetaste.app/problems/"

// Problem implements RFC 9457.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]any `json:"-"`

	// Log is recorded server side and never rendered.
	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error { return p.Log }

// MarshalJSON flattens Extensions into the top-level object. Standard members
// win over extensions with the same name.
func (p *Problem) MarshalJSON() ([]byte, error) {
	data := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		data[k] = v
	}

	data["type"] = p.Type
	data["title"] = p.Title
	data["status"] = p.Status
	if p.Detail != "" {
		data["detail"] = p.Detail
	}
	if p.Instance != "" {
		data["instance"] = p.Instance
	}

	return sonic.ConfigStd.Marshal(data)
}

type ProblemOption func(*Problem)

func NewProblem(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]any),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithExtension(key string, value any) ProblemOption {
	return func(p *Problem) { p.Extensions[key] = value }
}

func WithLog(err error) ProblemOption {
	return func(p *Problem) { p.Log = err }
}

// WithType sets the type URI to problemBase+slug.
func WithType(slug string) ProblemOption {
	return func(p *Problem) { p.Type = problemBase + slug }
}

func WithInstance(instance string) ProblemOption {
	return func(p *Problem) { p.Instance = instance }
}

// ValidationProblem reports request binding failures keyed by field.
func ValidationProblem(fields map[string]string) *Problem {
	return NewProblem(
		http.StatusBadRequest,
		"Validation Error",
		"One or more fields failed validation",
		WithType("validation"),
		WithExtension("category", "input_validation"),
		WithExtension("errors", fields),
	)
}

func BadRequest(detail string, opts ...ProblemOption) *Problem {
	return NewProblem(http.StatusBadRequest, "Bad Request", detail, opts...)
}

func Unauthorized(detail string) *Problem {
	return NewProblem(http.StatusUnauthorized, "Unauthorized", detail, WithType("unauthorized"))
}

func TooManyRequests(detail string) *Problem {
	return NewProblem(http.StatusTooManyRequests, "Too Many Requests", detail, WithType("rate-limited"))
}

func NotFound(detail string) *Problem {
	return NewProblem(http.StatusNotFound, "Not Found", detail)
}

func Internal(err error) *Problem {
	return NewProblem(http.StatusInternalServerError, "Internal Server Error",
		"An unexpected error occurred", WithLog(err))
}
