// Package advisor provides the optional free-text advisory collaborator: a
// chat-completions client that turns a day's activities and weather samples
// into human-readable recommendations. It annotates, it never schedules.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/holidayist/holiday-planner/internal/planner"
	"github.com/holidayist/holiday-planner/internal/weather"
)

// ChatClient calls an OpenAI-compatible chat-completions endpoint. Each
// Suggest call is a single, cancellable attempt behind a circuit breaker; the
// optimizer treats any failure as "no advice".
type ChatClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	circuit *gobreaker.CircuitBreaker
}

func NewChatClient(client *http.Client, baseURL, apiKey, model string) *ChatClient {
	return &ChatClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "advisor",
			MaxRequests: 2,
			Timeout:     2 * time.Minute,
		}),
	}
}

// Suggest asks the model for schedule recommendations for one day's
// activities and weather.
func (c *ChatClient) Suggest(ctx context.Context, activities []planner.Activity, samples []weather.Sample) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("advisor api key is not configured")
	}

	prompt := buildPrompt(activities, samples)

	payload, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("advisor returned status %d", resp.StatusCode)
		}

		var body struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, err
		}
		if len(body.Choices) == 0 {
			return nil, fmt.Errorf("advisor returned no choices")
		}
		return body.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func buildPrompt(activities []planner.Activity, samples []weather.Sample) string {
	var b strings.Builder
	b.WriteString("You are an expert travel planner specializing in weather-based activity scheduling.\n")
	b.WriteString("Given the following activities and hourly weather forecast, recommend the best time of day for each activity, flag any that should move indoors, and note safety considerations.\n\n")

	b.WriteString("Activities:\n")
	for _, a := range activities {
		desc := a.Description
		if desc == "" {
			desc = "no description"
		}
		fmt.Fprintf(&b, "- %s (%s) at %s - type: %s, slot: %s\n", a.Name, desc, a.Location, a.Type, a.Slot)
	}

	b.WriteString("\nWeather forecast:\n")
	for _, s := range samples {
		if s.Hour == nil {
			continue
		}
		rain := "no rain"
		if s.IsRaining() {
			rain = "rain"
		}
		temp := "n/a"
		if s.Temperature != nil {
			temp = fmt.Sprintf("%.1f°C", *s.Temperature)
		}
		humidity := "n/a"
		if s.Humidity != nil {
			humidity = fmt.Sprintf("%d%%", *s.Humidity)
		}
		fmt.Fprintf(&b, "Hour %d: %s, %s, %s humidity, %s\n", *s.Hour, s.Condition, temp, humidity, rain)
	}

	b.WriteString("\nFormat your response as actionable recommendations with reasons.\n")
	return b.String()
}
