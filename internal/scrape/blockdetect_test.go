package scrape

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		body   string
		want   BlockType
	}{
		{"cloudflare ray header", 403, http.Header{"Cf-Ray": {"abc123"}}, "", BlockCloudflare},
		{"cloudflare server header", 503, http.Header{"Server": {"cloudflare"}}, "", BlockCloudflare},
		{"cloudflare header on 200 ignored", 200, http.Header{"Cf-Ray": {"abc"}}, "<p>hello</p>", BlockNone},
		{"browser check body", 200, nil, "Checking your browser before accessing", BlockCloudflare},
		{"challenge body", 200, nil, "cloudflare security challenge", BlockCloudflare},
		{"recaptcha", 200, nil, "Please complete the reCAPTCHA", BlockCaptcha},
		{"hcaptcha", 200, nil, `<div class="h-captcha hcaptcha"></div>`, BlockCaptcha},
		{"noscript shell", 200, nil, `<noscript>You need to enable JavaScript</noscript>`, BlockJSShell},
		{"meta refresh", 200, nil, `<meta http-equiv="refresh" content="0;url=/app">`, BlockJSShell},
		{"large noscript page", 200, nil, `<noscript>enable javascript</noscript>` + strings.Repeat("x", 3000), BlockNone},
		{"clean page", 200, http.Header{}, "<h1>Acme</h1><p>We sell widgets.</p>", BlockNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBlock(tt.status, tt.header, []byte(tt.body)))
		})
	}
}
