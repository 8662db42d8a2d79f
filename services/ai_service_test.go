package services

import (
	"testing"

	"codereview/dto"
	apperrors "codereview/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisResponsePlainJSON(t *testing.T) {
	raw := `{"overall_score": 7, "summary": "Decent code.", "issues": [{"line": 3, "severity": "warning", "message": "unchecked error", "suggestion": "handle it"}]}`

	result, err := parseAnalysisResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, result.OverallScore)
	assert.Equal(t, "Decent code.", result.Summary)
	require.Len(t, result.Issues, 1)
	require.NotNil(t, result.Issues[0].Line)
	assert.Equal(t, 3, *result.Issues[0].Line)
	assert.Equal(t, "warning", result.Issues[0].Severity)
}

func TestParseAnalysisResponseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"overall_score\": 10, \"summary\": \"Perfect.\", \"issues\": []}\n```"

	result, err := parseAnalysisResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 10, result.OverallScore)
	assert.Equal(t, "Perfect.", result.Summary)
	assert.NotNil(t, result.Issues)
	assert.Empty(t, result.Issues)
}

func TestParseAnalysisResponseClampsScore(t *testing.T) {
	result, err := parseAnalysisResponse(`{"overall_score": 42, "summary": "x", "issues": []}`)
	require.NoError(t, err)
	assert.Equal(t, 10, result.OverallScore)

	result, err = parseAnalysisResponse(`{"overall_score": -1, "summary": "x", "issues": []}`)
	require.NoError(t, err)
	assert.Equal(t, 1, result.OverallScore)
}

func TestParseAnalysisResponseNullIssueLine(t *testing.T) {
	raw := `{"overall_score": 5, "summary": "x", "issues": [{"line": null, "severity": "suggestion", "message": "m", "suggestion": "s"}]}`

	result, err := parseAnalysisResponse(raw)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Nil(t, result.Issues[0].Line)
}

func TestParseAnalysisResponseRejectsGarbage(t *testing.T) {
	_, err := parseAnalysisResponse("the model rambled instead of emitting JSON")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeAnalysisFailed, appErr.Code)
}

func TestParseAnalysisResponseRejectsMissingFields(t *testing.T) {
	// valid JSON, wrong shape
	_, err := parseAnalysisResponse(`{"issues": []}`)
	require.Error(t, err)

	_, err = parseAnalysisResponse(`{"overall_score": 5, "issues": []}`)
	require.Error(t, err)
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := buildAnalysisPrompt(dto.AnalyzeRequest{
		Code:        "fmt.Println(1)",
		Language:    "go",
		Title:       "Hello",
		Description: "First try",
	})

	assert.Contains(t, prompt, "Title: Hello")
	assert.Contains(t, prompt, "Description: First try")
	assert.Contains(t, prompt, "Language: go")
	assert.Contains(t, prompt, "fmt.Println(1)")

	bare := buildAnalysisPrompt(dto.AnalyzeRequest{Code: "x = 1", Language: "python"})
	assert.NotContains(t, bare, "Title:")
	assert.NotContains(t, bare, "Description:")
}
