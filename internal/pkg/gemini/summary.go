package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Placeholder is returned instead of a summary when no API key is set.
const Placeholder = "Gemini API key not configured. Please set the API_KEY environment variable. " +
	"This is a placeholder response. The AI summary would highlight attendance trends, identify workers " +
	"with perfect attendance or frequent absences, and flag potential issues for HR to review."

// generator is the part of *genai.Models the summarizer calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Summarizer implements attendance.SummaryGenerator on top of the Gemini API.
type Summarizer struct {
	models generator
	model  string
}

// NewSummarizer returns a summarizer that only answers with Placeholder when
// apiKey is empty.
func NewSummarizer(ctx context.Context, apiKey, model string) (*Summarizer, error) {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		return &Summarizer{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Summarizer{models: client.Models, model: model}, nil
}

// Summarize implements attendance.SummaryGenerator. It makes a single call and
// never retries.
func (s *Summarizer) Summarize(ctx context.Context, cycleLabel string, records []attendance.SummaryRecord) (string, error) {
	if s.models == nil {
		return Placeholder, attendance.ErrSummaryNotConfigured
	}

	prompt, err := BuildPrompt(cycleLabel, records)
	if err != nil {
		return "", err
	}

	result, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from %s", s.model)
	}
	return text, nil
}

// BuildPrompt renders the HR analyst instructions followed by the records as
// indented JSON.
func BuildPrompt(cycleLabel string, records []attendance.SummaryRecord) (string, error) {
	if records == nil {
		records = []attendance.SummaryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode attendance records: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an HR analyst. Based on the following attendance data for the cycle %q, "+
		"provide a concise summary for an HR manager.\n\n", cycleLabel)
	b.WriteString("The data contains a list of attendance entries with worker name, date, status, and overtime hours. The status codes are:\n")
	for _, s := range attendance.Statuses {
		fmt.Fprintf(&b, "- %s: %s\n", s, s.Label())
	}
	b.WriteString(`
Your summary should include:
1. An overview of the general attendance rate.
2. Identification of any workers with notable attendance patterns (e.g., perfect attendance, high number of sick leaves, consecutive absences).
3. Analysis of overtime data: highlight workers with high overtime and any potential patterns.
4. Any potential compliance or workforce management issues that the data might suggest.
5. Format the output in clean markdown.

Data:
`)
	b.Write(data)
	b.WriteString("\n")

	return b.String(), nil
}
