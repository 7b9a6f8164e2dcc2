package pages

import (
	"github.com/nfrund/authform/internal/view/dto/auth"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Element ids targeted by htmx swaps.
const (
	FormID   = "auth-form"
	StatusID = "form-status"
)

// AuthForm renders the shared register/login form. Text inputs commit their
// value when they lose focus; the checkbox switches mode on change.
func AuthForm(data auth.FormData) cmp.Node {
	return cmp.El("form",
		g.ID(FormID),
		g.Class("container mt-3"),
		g.Method("post"),
		g.Action("/form/submit"),
		hx.Post("/form/submit"),
		hx.Target("#"+StatusID),
		hx.Swap("outerHTML"),
		g.Input(g.Type("hidden"), g.Name("mode"), g.Value(modeValue(data.Login))),
		g.H1(g.Class("text-center mb-5"), cmp.Text("Please "+data.Title())),
		cmp.If(!data.Login,
			field("inputName1", "Full Name:", "name", "text", data.Name, "Write your name (English)"),
		),
		field("inputEmail3", "Email:", "email", "email", data.Email, "Write a valid email address"),
		field("inputPassword3", "Password:", "password", "password", "", "Create a password (Should be hard!)"),
		g.Div(
			g.Class("row mb-3"),
			g.Div(
				g.Class("col-sm-10 offset-sm-2 form-check"),
				g.Input(
					g.Class("form-check-input"),
					g.Type("checkbox"),
					g.ID("gridCheck1"),
					g.Name("login"),
					cmp.If(data.Login, g.Checked()),
					hx.Post("/form/mode"),
					hx.Trigger("change"),
					hx.Target("#"+FormID),
					hx.Swap("outerHTML"),
				),
				cmp.El("label", g.Class("form-check-label"), g.For("gridCheck1"), cmp.Text("Already Registered")),
			),
		),
		Status(data),
		g.Button(g.Type("submit"), g.Class("btn btn-dark"), cmp.Text(data.Title())),
		g.Button(
			g.Type("submit"),
			g.Class("btn btn-success mx-3"),
			cmp.Attr("formaction", "/form/reset"),
			hx.Post("/form/reset"),
			hx.Target("#"+StatusID),
			hx.Swap("outerHTML"),
			cmp.Text("Reset Password"),
		),
	)
}

// Status renders the error line (and an optional notice) below the form fields.
// It is also the fragment returned to htmx after a submit or reset.
func Status(data auth.FormData) cmp.Node {
	return g.Div(
		g.ID(StatusID),
		g.Div(g.Class("row text-danger mx-0 mb-3"), cmp.Text(data.Error)),
		cmp.If(data.Notice != "", g.Div(g.Class("row text-success mx-0 mb-3"), cmp.Text(data.Notice))),
	)
}

func field(id, label, name, inputType, value, placeholder string) cmp.Node {
	return g.Div(
		g.Class("row mb-3"),
		cmp.El("label", g.For(id), g.Class("col-sm-2 col-form-label"), cmp.Text(label)),
		g.Div(
			g.Class("col-sm-10"),
			g.Input(
				g.Type(inputType),
				g.Class("form-control"),
				g.ID(id),
				g.Name(name),
				g.Value(value),
				g.Placeholder(placeholder),
				g.Required(),
				hx.Post("/form/fields/"+name),
				hx.Trigger("blur"),
				hx.Swap("none"),
			),
		),
	)
}

func modeValue(login bool) string {
	if login {
		return "login"
	}
	return "register"
}
