package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrBadResponse = fmt.Errorf("%w: llm returned an unusable response", domain.ErrClassifierFailure)

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the completions endpoint.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm error: status %d: %s", e.Status, e.Detail)
}

func (e *APIError) Is(target error) bool {
	return target == domain.ErrClassifierFailure
}

const systemPrompt = `You extract structured data from messages sent to a flight search assistant.
Today is %s. Reply with a single JSON object and nothing else:
{"intent": "search_flight" | "create_alert" | "greeting" | "help" | "unknown",
 "entities": {"origin": string|null, "destination": string|null, "departure_date": string|null, "target_price": number|null}}
Rules:
- origin and destination are 3-letter IATA city or airport codes in upper case.
- departure_date is YYYY-MM-DD; resolve relative dates like "tomorrow" against today.
- target_price is the maximum fare the user wants to pay, without currency symbols.
- Use null for anything the message does not state.`

// Classifier calls an OpenAI-compatible chat completions endpoint and asks
// for a JSON object describing the message intent.
type Classifier struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

func NewClassifier(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Classifier {
	return &Classifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, text, referenceDate string) (*domain.MessageIntent, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, referenceDate)},
			{Role: "user", Content: text},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/chat/completions"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("llm request failed", zap.String("model", c.model), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrClassifierFailure, err)
	}
	defer response.Body.Close()

	c.logger.Info(
		"llm request complete",
		zap.String("model", c.model),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, decodeError(response)
	}

	var payload chatResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if len(payload.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrBadResponse)
	}

	return parseClassification(payload.Choices[0].Message.Content)
}

// decodeError reads the OpenAI-style {"error": {"message": ...}} body when
// there is one and falls back to the status text.
func decodeError(response *http.Response) error {
	apiErr := &APIError{Status: response.StatusCode, Detail: http.StatusText(response.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if payload.Error.Message != "" {
		apiErr.Detail = payload.Error.Message
	}
	return apiErr
}

func parseClassification(content string) (*domain.MessageIntent, error) {
	content = stripCodeFence(content)

	var parsed classification
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}

	intent := &domain.MessageIntent{
		Intent: domain.ParseIntent(strings.ToLower(strings.TrimSpace(parsed.Intent))),
		Entities: domain.MessageEntities{
			Origin:        nonEmpty(parsed.Entities.Origin),
			Destination:   nonEmpty(parsed.Entities.Destination),
			DepartureDate: nonEmpty(parsed.Entities.DepartureDate),
		},
	}
	if parsed.Entities.TargetPrice.Valid {
		value := parsed.Entities.TargetPrice.Decimal
		intent.Entities.TargetPrice = &value
	}
	return intent, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type classification struct {
	Intent   string `json:"intent"`
	Entities struct {
		Origin        *string        `json:"origin"`
		Destination   *string        `json:"destination"`
		DepartureDate *string        `json:"departure_date"`
		TargetPrice   lenientDecimal `json:"target_price"`
	} `json:"entities"`
}

// lenientDecimal accepts numbers, quoted numbers and null. Values that do not
// parse are treated as absent.
type lenientDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (d *lenientDecimal) UnmarshalJSON(data []byte) error {
	d.Valid = false
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	trimmed = strings.Trim(trimmed, "\"")
	trimmed = strings.TrimSpace(strings.TrimLeft(trimmed, "R$€ "))
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	d.Decimal = value
	d.Valid = true
	return nil
}
