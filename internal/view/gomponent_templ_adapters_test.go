package view_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/nfrund/authform/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents/html"
)

func TestAdapters(t *testing.T) {
	t.Run("gomponent inside templ", func(t *testing.T) {
		var buf bytes.Buffer
		err := view.AdaptGomponentToTempl(g.P(g.Class("x"))).Render(context.Background(), &buf)

		require.NoError(t, err)
		assert.Equal(t, `<p class="x"></p>`, buf.String())
	})

	t.Run("templ inside gomponent", func(t *testing.T) {
		component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<b>hi</b>")
			return err
		})

		var buf bytes.Buffer
		err := g.Div(view.AdaptTemplToGomponent(component)).Render(&buf)

		require.NoError(t, err)
		assert.Equal(t, "<div><b>hi</b></div>", buf.String())
	})
}
