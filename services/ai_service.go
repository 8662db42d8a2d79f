package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"codereview/dto"
	"codereview/errors"

	openai "github.com/sashabaranov/go-openai"
)

// Analyzer is the AI provider contract. The call is slow and fallible; the
// caller must settle quota accounting before invoking it.
type Analyzer interface {
	AnalyzeCode(ctx context.Context, req dto.AnalyzeRequest) (dto.AIAnalysisResult, error)
}

// OpenAIAnalyzer runs code analysis through the OpenAI chat-completions API.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyzer() *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  openai.GPT4oMini,
	}
}

const analysisSystemPrompt = `You are an expert code reviewer. Analyze the submitted code and return ONLY valid JSON (no markdown, no explanation, no code blocks) with this exact structure:
{
  "overall_score": <number 1-10>,
  "summary": "<brief 1-2 sentence overview>",
  "issues": [
    {
      "line": <line number or null>,
      "severity": "<critical|warning|suggestion>",
      "message": "<what's wrong>",
      "suggestion": "<how to fix>"
    }
  ]
}

Focus on security vulnerabilities, code quality, best practices, performance and language-specific conventions. Severity levels: "critical" (security/breaking), "warning" (bugs/bad practice), "suggestion" (improvements). If the code is perfect, return an empty issues array and score 10.`

func buildAnalysisPrompt(req dto.AnalyzeRequest) string {
	var b strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
	}
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}
	fmt.Fprintf(&b, "Language: %s\n\nCODE:\n```%s\n%s\n```", req.Language, req.Language, req.Code)
	return b.String()
}

func (a *OpenAIAnalyzer) AnalyzeCode(ctx context.Context, req dto.AnalyzeRequest) (dto.AIAnalysisResult, error) {
	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildAnalysisPrompt(req)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return dto.AIAnalysisResult{}, errors.NewAppError(errors.ErrCodeAnalysisFailed, "AI provider error", err)
	}
	if len(resp.Choices) == 0 {
		return dto.AIAnalysisResult{}, errors.NewAppError(errors.ErrCodeAnalysisFailed, "AI provider returned no choices", nil)
	}

	result, err := parseAnalysisResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return dto.AIAnalysisResult{}, err
	}

	result.AnalysisTime = round2(time.Since(start).Seconds())
	return result, nil
}

// parseAnalysisResponse extracts the structured verdict from the model
// output, tolerating markdown code fences around the JSON.
func parseAnalysisResponse(raw string) (dto.AIAnalysisResult, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed struct {
		OverallScore *int          `json:"overall_score"`
		Summary      *string       `json:"summary"`
		Issues       []dto.AIIssue `json:"issues"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return dto.AIAnalysisResult{}, errors.NewAppError(errors.ErrCodeAnalysisFailed, "Failed to parse AI response as JSON", err)
	}
	if parsed.OverallScore == nil || parsed.Summary == nil {
		return dto.AIAnalysisResult{}, errors.NewAppError(errors.ErrCodeAnalysisFailed, "Invalid response structure from AI provider", nil)
	}

	score := *parsed.OverallScore
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	issues := parsed.Issues
	if issues == nil {
		issues = make([]dto.AIIssue, 0)
	}

	return dto.AIAnalysisResult{
		OverallScore: score,
		Summary:      *parsed.Summary,
		Issues:       issues,
	}, nil
}
