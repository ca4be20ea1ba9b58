package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot protection detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// jsShellMaxBytes bounds how small a page must be to count as a JS-only shell.
const jsShellMaxBytes = 2000

// DetectBlock inspects a fetched page for anti-bot interstitials. header
// may be nil when the page came from a browser rather than a raw fetch.
func DetectBlock(status int, header http.Header, body []byte) BlockType {
	if (status == http.StatusForbidden || status == http.StatusServiceUnavailable) && header != nil {
		if header.Get("cf-ray") != "" || header.Get("cf-cache-status") != "" ||
			strings.EqualFold(header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	switch {
	case strings.Contains(lower, "checking your browser"),
		strings.Contains(lower, "cf-browser-verification"),
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge"):
		return BlockCloudflare
	case strings.Contains(lower, "captcha"):
		// Also matches recaptcha and hcaptcha.
		return BlockCaptcha
	}

	if len(body) < jsShellMaxBytes {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return BlockJSShell
		}
		if strings.Contains(lower, `http-equiv="refresh"`) {
			return BlockJSShell
		}
	}

	return BlockNone
}
