package webhook

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

/* Error taxonomy shared by every relay operation
 * Each constructor returns a go-errors envelope carrying the HTTP status the router must answer with
 */

const (
	CodeConfiguration       = "CONFIGURATION_ERROR"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeUpstream            = "UPSTREAM_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternal            = "INTERNAL_ERROR"
)

// ConfigurationError reports a missing credential or secret. Always HTTP 500.
func ConfigurationError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeConfiguration)
}

// InvalidArgument reports malformed client input. Always HTTP 400.
func InvalidArgument(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeInvalidArgument)
}

// UpstreamError forwards a provider non-2xx status with the extracted detail
func UpstreamError(status int, detail string) error {
	return goerrors.New(detail, upstreamCategory(status)).
		WithCode(status).
		WithTextCode(CodeUpstream).
		WithMetadata(map[string]any{"upstream_status": status})
}

// UpstreamUnavailable reports a network, timeout or decode failure talking to the provider. Always HTTP 500.
func UpstreamUnavailable(source error) error {
	if source == nil {
		return goerrors.New("upstream unavailable", goerrors.CategoryExternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(CodeUpstreamUnavailable)
	}
	return goerrors.Wrap(source, goerrors.CategoryExternal, source.Error()).
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeUpstreamUnavailable)
}

// NotFound reports an unknown route or resource. Always HTTP 404.
func NotFound(message string) error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(CodeNotFound)
}

// MethodNotAllowed reports a matched route called with the wrong method. Always HTTP 405.
func MethodNotAllowed(method, path string) error {
	return goerrors.New("method "+method+" not allowed on "+path, goerrors.CategoryBadInput).
		WithCode(http.StatusMethodNotAllowed).
		WithTextCode(CodeMethodNotAllowed)
}

// KindOf returns the taxonomy code of err, CodeInternal for anything outside the taxonomy
func KindOf(err error) string {
	var rich *goerrors.Error
	if err == nil || !goerrors.As(err, &rich) || strings.TrimSpace(rich.TextCode) == "" {
		return CodeInternal
	}
	return rich.TextCode
}

// StatusOf returns the HTTP status err should be answered with
func StatusOf(err error) int {
	var rich *goerrors.Error
	if err == nil || !goerrors.As(err, &rich) || rich.Code == 0 {
		return http.StatusInternalServerError
	}
	return rich.Code
}

// DetailOf returns the human-readable detail carried by err
func DetailOf(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && strings.TrimSpace(rich.Message) != "" {
		return rich.Message
	}
	return err.Error()
}

// Summary returns the short label used in the "error" field of an error response
func Summary(code string) string {
	switch code {
	case CodeConfiguration:
		return "Server configuration error"
	case CodeInvalidArgument:
		return "Invalid request"
	case CodeUpstream:
		return "Upstream request failed"
	case CodeUpstreamUnavailable:
		return "Upstream unavailable"
	case CodeNotFound:
		return "Not found"
	case CodeMethodNotAllowed:
		return "Method not allowed"
	default:
		return "Internal server error"
	}
}

func upstreamCategory(status int) goerrors.Category {
	switch {
	case status == http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case status == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case status == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case status == http.StatusConflict:
		return goerrors.CategoryConflict
	case status == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	case status >= 400 && status < 500:
		return goerrors.CategoryBadInput
	default:
		return goerrors.CategoryExternal
	}
}
