// Package arena is the HTTP client for the Arena backend: file content, batch validation and job problems.
package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofrs/uuid"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/core"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "arena"

	_requestIDKey   = "X-Request-ID"
	_defaultTimeout = 30 * time.Second
	_maxErrorBody   = 64 << 10
)

// Module provides the Arena gateway.
var Module = fx.Provide(New)

// Gateway reaches the Arena backend collaborators.
type Gateway interface {
	GetFileContent(ctx context.Context, projectID, filePath string) (string, error)
	SaveFileContent(ctx context.Context, projectID, filePath, content string) error
	// Validate runs batch validation of a whole project.
	Validate(ctx context.Context, scope entity.SessionScope) (entity.BatchValidation, error)
	// JobProblems pulls the problems reported by a job execution.
	JobProblems(ctx context.Context, workspace, jobID string) ([]entity.Problem, error)
}

// Config is the arena configuration section.
type Config struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate implements validation.Validatable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("must be an absolute http(s) URL")
	}
	return nil
}

// Params are inbound parameters to create the gateway.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	HTTPClient *http.Client `optional:"true"`
}

type gateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger
}

type fileContent struct {
	Content string `json:"content"`
}

type validateRequest struct {
	Workspace string `json:"workspace"`
	Project   string `json:"project"`
}

type problemsResponse struct {
	Problems []entity.Problem `json:"problems"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New creates the gateway from the arena configuration section.
func New(p Params) (Gateway, error) {
	var cfg Config
	if err := core.PopulateValidated(p.Config, _configKey, &cfg); err != nil {
		return nil, err
	}
	return NewGateway(cfg, p.HTTPClient, p.Logger), nil
}

// NewGateway creates a gateway for an already loaded configuration. A nil client gets one with the configured timeout.
func NewGateway(cfg Config, client *http.Client, logger *zap.SugaredLogger) Gateway {
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = _defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		logger:  logger.With("component", "arena"),
	}
}

func (g *gateway) GetFileContent(ctx context.Context, projectID, filePath string) (string, error) {
	var out fileContent
	if err := g.do(ctx, "get file content", http.MethodGet, g.fileURL(projectID, filePath), nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (g *gateway) SaveFileContent(ctx context.Context, projectID, filePath, content string) error {
	return g.do(ctx, "save file content", http.MethodPut, g.fileURL(projectID, filePath), fileContent{Content: content}, nil)
}

func (g *gateway) Validate(ctx context.Context, scope entity.SessionScope) (entity.BatchValidation, error) {
	var out entity.BatchValidation
	body := validateRequest{Workspace: scope.Workspace, Project: scope.ProjectID}
	if err := g.do(ctx, "validate project", http.MethodPost, g.baseURL+"/api/validate", body, &out); err != nil {
		return entity.BatchValidation{}, err
	}
	return out, nil
}

func (g *gateway) JobProblems(ctx context.Context, workspace, jobID string) ([]entity.Problem, error) {
	target := fmt.Sprintf("%s/api/workspaces/%s/jobs/%s/problems", g.baseURL, url.PathEscape(workspace), url.PathEscape(jobID))
	var out problemsResponse
	if err := g.do(ctx, "get job problems", http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return out.Problems, nil
}

func (g *gateway) fileURL(projectID, filePath string) string {
	q := url.Values{}
	q.Set("path", filePath)
	return fmt.Sprintf("%s/api/projects/%s/files/content?%s", g.baseURL, url.PathEscape(projectID), q.Encode())
}

// do sends one JSON round trip. Non 2xx answers become a RemoteError carrying the server's message.
func (g *gateway) do(ctx context.Context, operation, method, target string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", operation, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set(_requestIDKey, id.String())
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			g.logger.Debugw("closing response body", "operation", operation, "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &editorerrors.RemoteError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, _maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		return e.Message
	}
	return strings.TrimSpace(string(raw))
}
