package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation(t *testing.T) {
	r := MustNew()

	body, err := r.Render(EmailConfirmation, map[string]any{
		"User":             map[string]string{"Username": "ana"},
		"ConfirmationLink": "http://bookstore.test/v1/confirm-email/abc",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome to Bookstore, ana!")
	assert.Contains(t, body, `href="http://bookstore.test/v1/confirm-email/abc"`)
}

func TestRenderEscapesUserInput(t *testing.T) {
	r := MustNew()

	body, err := r.Render(Newsletter, map[string]any{
		"User":    map[string]string{"Username": "<b>ana</b>"},
		"BaseURL": "http://bookstore.test",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<b>ana</b>")
	assert.Contains(t, body, "&lt;b&gt;ana&lt;/b&gt;")
}

func TestRenderDateHelper(t *testing.T) {
	assert.Equal(t, "01 May 2030 09:30", funcs["date"].(func(time.Time) string)(time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := MustNew().Render("missing.html", nil)
	assert.Error(t, err)
}
