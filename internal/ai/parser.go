// Package ai wraps the Gemini text-generation API as a best-effort
// task parser. Its whole contract is the fallback: callers always get
// a well-formed result and never an error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Priority classification of a parsed task.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ParsedTask is the structured guess extracted from free text.
type ParsedTask struct {
	Title    string
	Priority string
	DueDate  *time.Time
}

// Parser calls the Gemini generateContent endpoint. An empty API key
// short-circuits straight to the fallback.
type Parser struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewParser returns a task-text parser for the given model.
func NewParser(apiKey, model, baseURL string, timeout time.Duration) *Parser {
	return &Parser{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Parse extracts title, priority and due date from free text. On any
// failure — transport, upstream status, malformed payload — it returns
// the deterministic fallback {text, medium, nil}.
func (p *Parser) Parse(ctx context.Context, text string) ParsedTask {
	fallback := ParsedTask{Title: text, Priority: PriorityMedium}
	if p.apiKey == "" {
		return fallback
	}

	raw, err := p.generate(ctx, parsePrompt(text))
	if err != nil {
		log.Printf("ai parse: %v", err)
		return fallback
	}

	var out struct {
		Title    string  `json:"title"`
		Priority string  `json:"priority"`
		DueDate  *string `json:"due_date"`
	}
	if err := decodeStrict(raw, &out); err != nil {
		log.Printf("ai parse: decode: %v", err)
		return fallback
	}
	if out.Title == "" {
		return fallback
	}
	priority := strings.ToLower(strings.TrimSpace(out.Priority))
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
	default:
		return fallback
	}
	var due *time.Time
	if out.DueDate != nil && strings.TrimSpace(*out.DueDate) != "" {
		parsed, err := parseDueDate(*out.DueDate)
		if err != nil {
			return fallback
		}
		due = &parsed
	}
	return ParsedTask{Title: out.Title, Priority: priority, DueDate: due}
}

// SuggestSubTasks asks the model to break a task into 3-5 subtask
// titles. Any failure degrades to an empty list.
func (p *Parser) SuggestSubTasks(ctx context.Context, title string) []string {
	if p.apiKey == "" {
		return nil
	}
	raw, err := p.generate(ctx, suggestPrompt(title))
	if err != nil {
		log.Printf("ai suggest: %v", err)
		return nil
	}
	var titles []string
	if err := decodeStrict(raw, &titles); err != nil {
		log.Printf("ai suggest: decode: %v", err)
		return nil
	}
	out := titles[:0]
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// generate posts a single-turn prompt and returns the first candidate's text.
func (p *Parser) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, b)
	}

	var gen struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return "", err
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates")
	}
	return gen.Candidates[0].Content.Parts[0].Text, nil
}

// decodeStrict strips optional markdown code fences and decodes the
// rest as JSON into v. Trailing garbage counts as malformed.
func decodeStrict(raw string, v any) error {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(s)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing content after JSON")
	}
	return nil
}

func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("due_date: unrecognized format %q", s)
}

func parsePrompt(text string) string {
	return fmt.Sprintf(`I am a Todo app task parser.
Current time: %s

User input: %q

You must extract the following strictly in JSON format. Do not output any markdown formatting like %s. Just the raw JSON string.

Fields:
- title: The main task description (string)
- priority: One of ["high", "medium", "low"] (string).
    - "high": Urgent words like 'ASAP', 'urgent', 'immediately', 'today', 'critical', 'important'.
    - "low": Words like 'eventually', 'whenever', 'low priority', 'maybe', 'later'.
    - "medium": Default if no urgency is specified.
- due_date: ISO 8601 format datetime string (e.g. "2023-12-25T18:00:00") or null.

Response format:
{"title": "Task title", "priority": "medium", "due_date": null}`,
		time.Now().Format(time.RFC3339), text, "```json ... ```")
}

func suggestPrompt(title string) string {
	return fmt.Sprintf(`Break down this task into 3-5 actionable sub-tasks: %q
Return ONLY a JSON array of strings. Example: ["Book venue", "Call caterer"]`, title)
}
