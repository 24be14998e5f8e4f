package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	extractionTemperature = 0.5
	extractionMaxTokens   = 1000

	// NotFound fills any field the model or contact service could not supply.
	NotFound = "Not found"
)

// ExtractedFields are the keys the model is asked to return.
var ExtractedFields = []string{
	"Company Name",
	"Description",
	"Industry",
	"Number of Employees",
	"Revenue",
	"Address",
}

func buildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract the following information from the given text. ")
	b.WriteString("If the information is not available, write \"Not found\":\n\n")
	for _, f := range ExtractedFields {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nText: ")
	b.WriteString(text)
	b.WriteString("\n\nProvide the answer in JSON format.")
	return b.String()
}

// extract asks the completer for company facts. On failure the returned
// document is {"error": message} and err is non-nil.
func extract(ctx context.Context, completer Completer, text string) (map[string]any, error) {
	raw, err := completer.Complete(ctx, CompletionRequest{
		Prompt:      buildExtractionPrompt(text),
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
	})
	if err != nil {
		return map[string]any{"error": err.Error()}, err
	}

	facts, err := parseFacts(raw)
	if err != nil {
		return map[string]any{"error": err.Error()}, err
	}
	return facts, nil
}

func parseFacts(raw string) (map[string]any, error) {
	facts := map[string]any{}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &facts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return facts, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// companyName returns the extracted company name, or fallback when the
// model did not find one.
func companyName(facts map[string]any, fallback string) string {
	name, _ := facts["Company Name"].(string)
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, NotFound) {
		return strings.TrimSpace(fallback)
	}
	return name
}
