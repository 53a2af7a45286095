package xapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxDetailLength bounds raw-text details forwarded to callers
const maxDetailLength = 512

type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
	} `json:"errors"`
}

/* ExtractDetail turns a provider error body into a human-readable detail
 * Order: detail, title, errors[0], raw text, then the HTTP status phrase
 */
func ExtractDetail(status int, body []byte) string {
	var p problem
	if err := json.Unmarshal(body, &p); err == nil {
		for _, candidate := range []string{p.Detail, p.Title} {
			if s := strings.TrimSpace(candidate); s != "" {
				return s
			}
		}
		if len(p.Errors) > 0 {
			first := p.Errors[0]
			for _, candidate := range []string{first.Detail, first.Message, first.Title} {
				if s := strings.TrimSpace(candidate); s != "" {
					return s
				}
			}
		}
	}

	// a JSON object without any known field is not a useful detail
	if text := strings.TrimSpace(string(body)); text != "" && !json.Valid(body) {
		if len(text) > maxDetailLength {
			cut := maxDetailLength
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		return text
	}

	if phrase := http.StatusText(status); phrase != "" {
		return phrase
	}
	return "upstream request failed"
}
