package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	defaultLLMBaseURL = "https://openrouter.ai/api/v1"
	defaultLLMModel   = "google/gemini-2.5-flash"
	llmTemperature    = 0.8

	systemPrompt = "You are a helpful assistant that generates realistic farm shop data in JSON format. " +
		"Always return valid JSON arrays only."
)

// ErrUnauthorized is returned when the chat completions API rejects the API key.
var ErrUnauthorized = errors.New("llm directory unauthorized (invalid API key)")

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LLMConfig configures the chat completions endpoint.
type LLMConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	RateLimit int // requests per second, 0 disables limiting
}

// LLMSource asks an OpenAI-compatible chat completions API to generate farm
// shops around a coordinate.
type LLMSource struct {
	client  HTTPClient
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
	log     *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewLLMSource creates an LLMSource with a default HTTP client.
func NewLLMSource(config LLMConfig, log *slog.Logger) *LLMSource {
	const timeout = 30
	return NewLLMSourceWithClient(&http.Client{Timeout: timeout * time.Second}, config, log)
}

// NewLLMSourceWithClient allows injecting custom HTTP client.
func NewLLMSourceWithClient(client HTTPClient, config LLMConfig, log *slog.Logger) *LLMSource {
	if config.BaseURL == "" {
		config.BaseURL = defaultLLMBaseURL
	}
	if config.Model == "" {
		config.Model = defaultLLMModel
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit)
	}

	return &LLMSource{
		client:  client,
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		model:   config.Model,
		limiter: limiter,
		log:     log,
	}
}

// Discover generates shops near center. An empty reply means no shops; a
// non-empty reply that cannot be parsed falls back to two sample shops next to
// center. Transport and status errors are returned.
func (ls *LLMSource) Discover(ctx context.Context, center models.Coordinates) ([]models.RawShop, error) {
	if err := ls.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	ls.log.InfoContext(ctx, "Discovering shops", "lat", center.Latitude, "lng", center.Longitude)

	content, err := ls.complete(ctx, shopsPrompt(center))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		ls.log.WarnContext(ctx, "Chat completions API returned an empty reply")
		return []models.RawShop{}, nil
	}

	shops, err := parseShops(content)
	if err != nil {
		ls.log.ErrorContext(ctx, "Failed to parse generated shops, using sample shops",
			"error", err,
			"reply", content)
		return sampleShops(center), nil
	}

	return shops, nil
}

func shopsPrompt(center models.Coordinates) string {
	lat, lng := center.Latitude, center.Longitude
	return fmt.Sprintf(`Generate a realistic list of 8-10 farm shops and organic markets near coordinates %[1]v, %[2]v.
For each shop, provide:
- name: A realistic farm shop name
- address: A plausible street address in the area
- lat: Latitude (vary by 0.01-0.05 from %[1]v)
- lng: Longitude (vary by 0.01-0.05 from %[2]v)
- description: Brief description of what they sell (organic produce, dairy, meat, etc.)

Return ONLY a JSON array with this exact structure, no other text:
[{"id": "1", "name": "...", "address": "...", "lat": number, "lng": number, "description": "..."}]`, lat, lng)
}

// complete returns the text of the first choice, or "" when there is none.
func (ls *LLMSource) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: ls.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: llmTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ls.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+ls.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ls.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute chat request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		errBody, _ := io.ReadAll(resp.Body)
		ls.log.ErrorContext(ctx, "Chat completions API error", "status", resp.StatusCode, "body", string(errBody))
		return "", fmt.Errorf("chat completions API returned status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}

	return completion.Choices[0].Message.Content, nil
}

// parseShops extracts the first JSON array from the reply. Entries that are not
// objects are skipped; field values are coerced to strings except lat/lng.
func parseShops(content string) ([]models.RawShop, error) {
	payload := jsonArrayPattern.FindString(content)
	if payload == "" {
		payload = content
	}

	var entries []any
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode shops array: %w", err)
	}

	shops := make([]models.RawShop, 0, len(entries))
	for idx, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		id := cast.ToString(fields["id"])
		if id == "" {
			id = cast.ToString(idx + 1)
		}

		shops = append(shops, models.RawShop{
			ID:          id,
			Name:        cast.ToString(fields["name"]),
			Address:     cast.ToString(fields["address"]),
			Description: cast.ToString(fields["description"]),
			Lat:         fields["lat"],
			Lng:         fields["lng"],
		})
	}

	return shops, nil
}

func sampleShops(center models.Coordinates) []models.RawShop {
	return []models.RawShop{
		{
			ID:          "1",
			Name:        "Green Valley Farm Shop",
			Address:     "123 Farm Road",
			Description: "Fresh organic vegetables and dairy products",
			Lat:         center.Latitude + 0.02,
			Lng:         center.Longitude + 0.02,
		},
		{
			ID:          "2",
			Name:        "Sunrise Organic Market",
			Address:     "456 Market Street",
			Description: "Locally sourced organic produce and artisan goods",
			Lat:         center.Latitude - 0.03,
			Lng:         center.Longitude + 0.01,
		},
	}
}
