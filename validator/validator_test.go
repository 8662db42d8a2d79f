package validator

import (
	"strings"
	"testing"

	apperrors "codereview/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTextStripsHTML(t *testing.T) {
	out, err := SanitizeText("<script>alert(1)</script>Hello <b>world</b>", MaxTitleLength)
	require.NoError(t, err)
	assert.Equal(t, "alert(1)Hello world", out)
}

func TestSanitizeTextTrimsWhitespace(t *testing.T) {
	out, err := SanitizeText("  padded  ", MaxTitleLength)
	require.NoError(t, err)
	assert.Equal(t, "padded", out)
}

func TestSanitizeTextLengthLimit(t *testing.T) {
	_, err := SanitizeText(strings.Repeat("a", MaxTitleLength+1), MaxTitleLength)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeTextTooLong, appErr.Code)

	out, err := SanitizeText(strings.Repeat("a", MaxTitleLength), MaxTitleLength)
	require.NoError(t, err)
	assert.Len(t, out, MaxTitleLength)
}

func TestValidateCodeContent(t *testing.T) {
	assert.NoError(t, ValidateCodeContent("print('hi')"))
	assert.Error(t, ValidateCodeContent(""))
	assert.Error(t, ValidateCodeContent("   \n\t  "))
	assert.Error(t, ValidateCodeContent(strings.Repeat("x", MaxCodeLength+1)))
	assert.NoError(t, ValidateCodeContent(strings.Repeat("x", MaxCodeLength)))
}

func TestValidateRating(t *testing.T) {
	assert.Error(t, ValidateRating(0))
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(10))
	assert.Error(t, ValidateRating(11))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("user@"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.Error(t, ValidatePassword("short"))
}
