package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/jobboard-ui/internal/errors"
	"github.com/target/jobboard-ui/internal/http/ui/viewmodel"
)

// ErrorPage is the model of the standalone error page.
type ErrorPage struct {
	viewmodel.Layout
	Status  int
	Heading string
	Message string
}

// LayoutData implements viewmodel.LayoutProvider.
func (p *ErrorPage) LayoutData() *viewmodel.Layout { return &p.Layout }

// DetermineErrorStatus maps an application error to an HTTP status.
func DetermineErrorStatus(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeTransport, apperrors.ErrCodeDecode:
		return http.StatusBadGateway
	case apperrors.ErrCodeCanceled:
		// Client went away; nobody reads this status.
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns text that is safe to show. Only validation messages are passed through.
func userMessage(err error, status int) string {
	if apperrors.IsValidation(err) {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			return appErr.Message
		}
	}
	switch {
	case status == http.StatusNotFound:
		return "The page you are looking for does not exist."
	case apperrors.IsRemote(err):
		return "The job service is unavailable. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

// ErrorOpts groups the inputs of RenderError.
type ErrorOpts struct {
	W        http.ResponseWriter
	R        *http.Request
	Err      error
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

// RenderError writes an error response. htmx requests get the status plus a showAlert
// trigger and no swap; full page requests get the error page.
func RenderError(opts ErrorOpts) {
	status := DetermineErrorStatus(opts.Err)
	msg := userMessage(opts.Err, status)

	if opts.Logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		opts.Logger.Log(opts.R.Context(), level, "request failed",
			slog.String("path", opts.R.URL.Path),
			slog.Int("status", status),
			slog.String("code", string(apperrors.GetCode(opts.Err))),
			slog.Any("error", opts.Err),
		)
	}

	if IsHTMX(opts.R) {
		SetHXTrigger(opts.W, EventShowAlert, map[string]string{"message": msg})
		SetHXReswap(opts.W, "none")
		opts.W.WriteHeader(status)
		return
	}

	if opts.Renderer == nil {
		http.Error(opts.W, msg, status)
		return
	}
	page := &ErrorPage{
		Layout:  viewmodel.Layout{Title: http.StatusText(status), CSRFToken: GetCSRFToken(opts.R)},
		Status:  status,
		Heading: http.StatusText(status),
		Message: msg,
	}
	if err := opts.Renderer.RenderError(opts.W, status, page); err != nil {
		http.Error(opts.W, msg, status)
	}
}
