package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/config"
	"github.com/GTDGit/gtd_market/internal/models"
)

var trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

// GroqGenerator implements TextGenerator with Groq's OpenAI-compatible chat API.
type GroqGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGroqGenerator creates a generator. It returns nil when no API key is
// configured; the composer then always uses fallback text.
func NewGroqGenerator(cfg *config.NotificationConfig) *GroqGenerator {
	if cfg == nil || cfg.GroqAPIKey == "" {
		return nil
	}
	return &GroqGenerator{
		apiKey:  cfg.GroqAPIKey,
		model:   cfg.GroqModel,
		baseURL: strings.TrimSuffix(cfg.GroqBaseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate asks the model for a JSON object with the schema's fields and
// decodes it into notification content.
func (g *GroqGenerator) Generate(ctx context.Context, prompt string, schema OutputSchema) (*models.NotificationContent, error) {
	raw, err := g.complete(ctx, prompt+"\n\n"+schema.Instruction())
	if err != nil {
		return nil, err
	}

	var content models.NotificationContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return &content, nil
}

// complete calls the chat completions endpoint and returns the JSON object
// found in the first choice.
func (g *GroqGenerator) complete(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": g.model,
		"messages": []interface{}{
			map[string]string{
				"role":    "system",
				"content": "You write short operational alerts for a marketplace admin. You MUST respond with ONLY a valid JSON object. No explanations, no markdown. Start your response with { and end with }.",
			},
			map[string]string{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.4,
		"max_tokens":  600,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, truncateString(string(body), 200))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no response from Groq API")
	}

	rawContent := result.Choices[0].Message.Content
	log.Debug().Str("raw_response", rawContent).Msg("Raw AI response")

	content := extractJSON(rawContent)
	if content == "" {
		return "", fmt.Errorf("no valid JSON found in AI response. Raw: %s", truncateString(rawContent, 200))
	}
	return content, nil
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// extractJSON extracts a JSON object from a reply that may be wrapped in
// markdown fences or surrounded by prose. It returns "" when none is found.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	obj := trailingCommaRegex.ReplaceAllString(extractJSONObject(s[start:]), "$1")

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil || len(parsed) == 0 {
		return ""
	}
	return obj
}

// extractJSONObject returns the balanced {...} prefix of s.
func extractJSONObject(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i, char := range s {
		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	// Unbalanced; let the JSON parser report it.
	return s
}
