package auth

// FormData is the view model for the combined register/login form. The
// password is never rendered back, so it has no field here.
type FormData struct {
	Login bool
	Name  string
	Email string
	Error string
	// Notice is a transient success line shown under the form after an
	// htmx submission.
	Notice string
}

// Title returns the heading word for the current mode.
func (d FormData) Title() string {
	if d.Login {
		return "Login"
	}
	return "Register"
}

// ResetPasswordData carries the emailed token into the new-password form.
type ResetPasswordData struct {
	Token string
}

// MessageData is a simple titled message page, used for email verification.
type MessageData struct {
	Title string
	Body  string
}
