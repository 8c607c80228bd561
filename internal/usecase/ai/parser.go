package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// Parser handles parsing and validation of chat completion responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseClassification parses a classification JSON reply. Unknown values
// are rejected so callers can fall back to the heuristic mapping.
func (p *Parser) ParseClassification(content string) (*Classification, error) {
	content = extractJSON(content)

	var result Classification
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	result.Priority = entities.IssuePriority(strings.ToUpper(strings.TrimSpace(string(result.Priority))))
	result.Type = entities.TicketType(strings.ToUpper(strings.TrimSpace(string(result.Type))))
	if !result.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority %q in response", result.Priority)
	}
	if !result.Type.IsValid() {
		return nil, fmt.Errorf("invalid type %q in response", result.Type)
	}
	return &result, nil
}

// ParseEmailDraft splits a reply into subject and body. A leading
// "Subject:" line becomes the subject; everything after it is the body.
func (p *Parser) ParseEmailDraft(content string) *DraftResult {
	content = extractJSON(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "subject:") {
			return &DraftResult{
				Subject: strings.TrimSpace(trimmed[len("subject:"):]),
				Body:    strings.TrimSpace(strings.Join(lines[i+1:], "\n")),
			}
		}
		break
	}
	return &DraftResult{Body: strings.TrimSpace(content)}
}

// extractJSON strips a surrounding markdown code fence
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.Index(content, "\n"); nl != -1 && !strings.Contains(content[:nl], " ") {
			// drop a language tag such as ```markdown
			content = content[nl+1:]
		}
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
