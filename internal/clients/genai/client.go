package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldline/coachlab-backend/internal/lesson/prompts"
	"github.com/fieldline/coachlab-backend/internal/pkg/ctxutil"
	"github.com/fieldline/coachlab-backend/internal/pkg/httpx"
	"github.com/fieldline/coachlab-backend/internal/pkg/logger"
)

// Client performs one schema-constrained generation round trip per call.
// It never retries and never falls back; both decisions belong to the
// calling service.
type Client interface {
	GenerateJSON(ctx context.Context, p prompts.Prompt) (map[string]any, error)
}

// GenerationParams are fixed per call; nothing tunes them adaptively.
type GenerationParams struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:     0.7,
		MaxOutputTokens: 32768,
		TopP:            0.95,
		TopK:            40,
	}
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	params     GenerationParams
	httpClient *http.Client
}

// NewClient builds a client from the environment. A missing GENAI_API_KEY
// is a configuration error raised here, before any network call.
func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("GENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("GENAI_MODEL"))
	if model == "" {
		model = "gpt-5.2"
	}

	timeoutSec := 120
	if v := os.Getenv("GENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("service", "GenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		params:     DefaultGenerationParams(),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

// NewClientWith builds a client with explicit settings. Tests use it to
// point at a stub server.
func NewClientWith(log *logger.Logger, baseURL, apiKey, model string, params GenerationParams, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &client{
		log:        log.With("service", "GenAIClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		params:     params,
		httpClient: httpClient,
	}
}

type generateRequest struct {
	Model string `json:"model"`

	Input []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"input"`

	Text struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`

	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
	TopP            float64 `json:"top_p,omitempty"`
	TopK            int     `json:"top_k,omitempty"`
}

type generateResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

// extractOutputText concatenates the first candidate's assistant text.
func extractOutputText(resp generateResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

func (c *client) doOnce(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), "POST", c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: httpx.RetryAfterDuration(resp, 0, 30*time.Second),
		}
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return &ParseError{Preview: preview(string(raw)), Err: uErr}
	}
	return nil
}

func (c *client) GenerateJSON(ctx context.Context, p prompts.Prompt) (map[string]any, error) {
	if strings.TrimSpace(p.SchemaName) == "" {
		return nil, fmt.Errorf("prompt schema name required")
	}
	if p.Schema == nil {
		return nil, fmt.Errorf("prompt schema required")
	}

	req := generateRequest{
		Model: c.model,
		Input: []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature:     c.params.Temperature,
		MaxOutputTokens: c.params.MaxOutputTokens,
		TopP:            c.params.TopP,
		TopK:            c.params.TopK,
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   p.SchemaName,
		"schema": p.Schema,
		"strict": true,
	}

	c.log.Debug("Requesting structured generation",
		"schema", p.SchemaName,
		"prompt", p.Name,
		"model", c.model,
	)

	var resp generateResponse
	if err := c.doOnce(ctx, "/v1/responses", req, &resp); err != nil {
		return nil, err
	}
	if resp.Refusal != "" {
		c.log.Warn("Model refused structured generation", "schema", p.SchemaName, "refusal", resp.Refusal)
		return nil, fmt.Errorf("model refused: %s", resp.Refusal)
	}

	jsonText := extractOutputText(resp)
	if strings.TrimSpace(jsonText) == "" {
		return nil, &ParseError{Preview: "", Err: fmt.Errorf("no output_text in response")}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return nil, &ParseError{Preview: preview(jsonText), Err: err}
	}
	return obj, nil
}
