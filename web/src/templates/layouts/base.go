package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/authform/internal/view"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the shared HTML document, rendering any flash
// messages above it.
func Base(title string, flashes view.FlashData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return document(title, flashes, view.AdaptTemplToGomponent(content)).Render(w)
	})
}

func document(title string, flashes view.FlashData, content cmp.Node) cmp.Node {
	return g.Doctype(
		g.HTML(
			g.Lang("en"),
			g.Head(
				g.Meta(g.Charset("utf-8")),
				g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
				cmp.El("title", cmp.Text(CalculateTitle(title))),
				g.Script(g.Src(htmxSrc)),
			),
			g.Body(
				g.Div(
					g.Class("p-5 mt-5 mx-5"),
					flashList("alert alert-success", flashes.Success),
					flashList("alert alert-danger", flashes.Error),
					content,
				),
			),
		),
	)
}

func flashList(class string, messages []string) cmp.Node {
	return cmp.Map(messages, func(m string) cmp.Node {
		return g.Div(g.Class(class), g.Role("alert"), cmp.Text(m))
	})
}
