package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/view"
	"github.com/nfrund/authform/internal/view/dto/auth"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/nfrund/authform/web/src/templates/pages"
	cmp "maragu.dev/gomponents"
)

// Notices shown after a successful submission.
const (
	NoticeRegistered = "Account created successfully! Check your inbox to verify your email."
	NoticeSignedIn   = "Logged in successfully!"
	NoticeResetSent  = "A password reset link has been sent."
	NoticePending    = "Your request is still being processed."
)

// Provider is the part of the identity backend the handlers call directly.
// Everything the form itself does goes through the form.Controller.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*domain.Principal, error)
	domain.TokenConfirmer
}

// FormHandler serves the register/login form and the pages reached from the
// emailed links.
type FormHandler struct {
	provider   Provider
	submitWait time.Duration
}

// NewFormHandler creates a FormHandler. submitWait bounds how long a request
// waits for the provider before rendering the current state.
func NewFormHandler(provider Provider, submitWait time.Duration) *FormHandler {
	return &FormHandler{provider: provider, submitWait: submitWait}
}

// Show renders the form for the caller's form session (GET /).
func (h *FormHandler) Show(c echo.Context) error {
	ctrl := middleware.FormFromContext(c)
	if ctrl == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "form session missing")
	}

	data := formData(ctrl.State())
	page := view.AdaptGomponentToTempl(pages.AuthForm(data))
	return render(c, http.StatusOK, layouts.Base(data.Title(), view.GetFlashData(c), page))
}

// SetField commits a single field when it loses focus (POST /form/fields/:field).
func (h *FormHandler) SetField(c echo.Context) error {
	ctrl := middleware.FormFromContext(c)
	if ctrl == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "form session missing")
	}

	field := c.Param("field")
	if !commitField(ctrl, field, c.FormValue(field)) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown field")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetMode switches between register and login from the checkbox and returns
// the re-rendered form (POST /form/mode).
func (h *FormHandler) SetMode(c echo.Context) error {
	ctrl := middleware.FormFromContext(c)
	if ctrl == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "form session missing")
	}

	ctrl.SetMode(modeFromCheckbox(c.FormValue("login")))
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return renderNode(c, http.StatusOK, pages.AuthForm(formData(ctrl.State())))
}

// Submit commits any posted fields, runs the submission for the current mode
// and waits for it to complete (POST /form/submit).
func (h *FormHandler) Submit(c echo.Context) error {
	ctrl := middleware.FormFromContext(c)
	if ctrl == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "form session missing")
	}

	commitPosted(c, ctrl)
	outcome, done := h.await(c.Request().Context(), ctrl.Submit(c.Request().Context()))

	notice := NoticePending
	if done {
		notice = ""
		if outcome.Err == nil && outcome.Principal != nil {
			setAuthCookie(c, outcome.Principal.Token)
			notice = NoticeRegistered
			if outcome.Op == form.OpSignIn {
				notice = NoticeSignedIn
			}
		}
	}
	return h.respond(c, ctrl, notice)
}

// Reset requests a password reset email for the current email, whatever the
// mode (POST /form/reset).
func (h *FormHandler) Reset(c echo.Context) error {
	ctrl := middleware.FormFromContext(c)
	if ctrl == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "form session missing")
	}

	commitPosted(c, ctrl)
	outcome, done := h.await(c.Request().Context(), ctrl.ResetPassword(c.Request().Context()))

	notice := NoticePending
	if done {
		notice = ""
		if outcome.Err == nil {
			notice = NoticeResetSent
		}
	}
	return h.respond(c, ctrl, notice)
}

// Verify confirms an email address from the emailed link (GET /auth/verify).
func (h *FormHandler) Verify(c echo.Context) error {
	token := c.QueryParam("token")
	logger := middleware.FromContext(c.Request().Context())

	p, err := h.provider.ConfirmEmail(c.Request().Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidToken) {
			logger.Error("Email verification failed", "error", err)
		}
		return renderMessage(c, http.StatusBadRequest, auth.MessageData{
			Title: "Verification Failed",
			Body:  "This verification link is invalid or has expired.",
		})
	}

	logger.Info("Email verified", "principal", p.ID)
	return renderMessage(c, http.StatusOK, auth.MessageData{
		Title: "Email Verified",
		Body:  "Thank you, " + p.Email + " is now verified.",
	})
}

// ResetPasswordGet renders the new-password form (GET /auth/reset-password?token=...).
func (h *FormHandler) ResetPasswordGet(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		view.SetFlashError(c, "A valid reset token is required to change your password.")
		return c.Redirect(http.StatusSeeOther, "/")
	}

	page := view.AdaptGomponentToTempl(pages.ResetPassword(auth.ResetPasswordData{Token: token}))
	return render(c, http.StatusOK, layouts.Base("Reset Password", view.GetFlashData(c), page))
}

// ResetPasswordPost sets the new password and signs the user in
// (POST /auth/reset-password).
func (h *FormHandler) ResetPasswordPost(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		view.SetFlashError(c, "A valid reset token is required to change your password.")
		return c.Redirect(http.StatusSeeOther, "/")
	}

	password := req.Password
	logger := middleware.FromContext(c.Request().Context())

	if err := form.ValidatePassword(password); err != nil {
		view.SetFlashError(c, err.Error())
		return c.Redirect(http.StatusSeeOther, "/auth/reset-password?token="+url.QueryEscape(req.Token))
	}

	user, err := h.provider.ConfirmPasswordReset(c.Request().Context(), req.Token, password)
	if err != nil {
		logger.Warn("Password reset failed", "error", err)
		view.SetFlashError(c, "This reset link is invalid or has expired.")
		return c.Redirect(http.StatusSeeOther, "/")
	}

	p, err := h.provider.SignIn(c.Request().Context(), user.Email, password)
	if err != nil {
		logger.Error("Failed to sign in user after successful password reset", "error", err)
		view.SetFlashError(c, "Password reset successful, but failed to log you in automatically. Please log in manually.")
		return c.Redirect(http.StatusSeeOther, "/")
	}

	setAuthCookie(c, p.Token)
	view.SetFlashSuccess(c, "Your password has been reset successfully! You are now logged in.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout expires the auth cookie (GET /auth/logout).
func (h *FormHandler) Logout(c echo.Context) error {
	setAuthCookie(c, "")
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Health reports liveness (GET /health).
func (h *FormHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// await waits for the outcome of a submission for at most submitWait. The
// operation itself keeps running when the wait gives up.
func (h *FormHandler) await(ctx context.Context, ch <-chan form.Outcome) (form.Outcome, bool) {
	timer := time.NewTimer(h.submitWait)
	defer timer.Stop()

	select {
	case o, ok := <-ch:
		return o, ok
	case <-timer.C:
		return form.Outcome{}, false
	case <-ctx.Done():
		return form.Outcome{}, false
	}
}

// respond renders the status fragment for htmx requests and otherwise
// redirects back to the form, carrying notice as a flash.
func (h *FormHandler) respond(c echo.Context, ctrl *form.Controller, notice string) error {
	if isHTMX(c) {
		data := formData(ctrl.State())
		data.Notice = notice
		return renderNode(c, http.StatusOK, pages.Status(data))
	}
	if notice != "" {
		view.SetFlashSuccess(c, notice)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func formData(s form.State) auth.FormData {
	return auth.FormData{
		Login: s.Mode == form.ModeLogin,
		Name:  s.Name,
		Email: s.Email,
		Error: s.Error,
	}
}

func commitField(ctrl *form.Controller, field, value string) bool {
	switch field {
	case "name":
		ctrl.SetName(value)
	case "email":
		ctrl.SetEmail(value)
	case "password":
		ctrl.SetPassword(value)
	default:
		return false
	}
	return true
}

// commitPosted applies the fields present in a full form post. The hidden
// mode input marks such a post; the checkbox is absent when unchecked.
func commitPosted(c echo.Context, ctrl *form.Controller) {
	params, err := c.FormParams()
	if err != nil {
		return
	}
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := params[field]; ok {
			commitField(ctrl, field, params.Get(field))
		}
	}
	if _, ok := params["mode"]; ok {
		ctrl.SetMode(modeFromCheckbox(params.Get("login")))
	}
}

func modeFromCheckbox(v string) form.Mode {
	if v == "" {
		return form.ModeRegister
	}
	return form.ModeLogin
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/html; charset=utf-8")
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

func renderNode(c echo.Context, status int, node cmp.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/html; charset=utf-8")
	c.Response().WriteHeader(status)
	return node.Render(c.Response().Writer)
}

func renderMessage(c echo.Context, status int, data auth.MessageData) error {
	page := view.AdaptGomponentToTempl(pages.Message(data))
	return render(c, status, layouts.Base(data.Title, view.GetFlashData(c), page))
}
