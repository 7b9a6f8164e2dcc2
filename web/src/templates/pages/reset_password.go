package pages

import (
	"github.com/nfrund/authform/internal/view/dto/auth"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// ResetPassword renders the new-password form reached from the emailed link.
func ResetPassword(data auth.ResetPasswordData) cmp.Node {
	return cmp.El("form",
		g.Class("container mt-3"),
		g.Method("post"),
		g.Action("/auth/reset-password"),
		g.H1(g.Class("text-center mb-5"), cmp.Text("Choose a New Password")),
		g.Input(g.Type("hidden"), g.Name("token"), g.Value(data.Token)),
		g.Div(
			g.Class("row mb-3"),
			cmp.El("label", g.For("newPassword"), g.Class("col-sm-2 col-form-label"), cmp.Text("Password:")),
			g.Div(
				g.Class("col-sm-10"),
				g.Input(g.Type("password"), g.Class("form-control"), g.ID("newPassword"), g.Name("password"), g.Required()),
			),
		),
		g.Button(g.Type("submit"), g.Class("btn btn-dark"), cmp.Text("Save Password")),
	)
}

// Message renders a titled paragraph.
func Message(data auth.MessageData) cmp.Node {
	return g.Div(
		g.Class("container mt-3"),
		g.H1(g.Class("text-center mb-5"), cmp.Text(data.Title)),
		g.P(cmp.Text(data.Body)),
		g.A(g.Href("/"), cmp.Text("Back to the form")),
	)
}
