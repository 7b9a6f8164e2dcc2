package layouts_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/authform/internal/view"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents/html"
)

func TestBase(t *testing.T) {
	flashes := view.FlashData{Success: []string{"saved"}, Error: []string{"oops"}}
	content := view.AdaptGomponentToTempl(g.P(g.ID("content")))

	var buf bytes.Buffer
	require.NoError(t, layouts.Base("Login", flashes, content).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>Login - Authform</title>")
	assert.Contains(t, html, "htmx.org")
	assert.Contains(t, html, "saved")
	assert.Contains(t, html, "oops")
	assert.Contains(t, html, `<p id="content"></p>`)
}
