package scrape

import (
	"bytes"
	"net/http"
)

// BlockType describes the kind of anti-bot wall a homepage returned.
type BlockType string

// Block types reported by DetectBlock.
const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// Blocked reports whether b names a block.
func (b BlockType) Blocked() bool {
	return b != BlockNone
}

var (
	cloudflareMarkers = [][]byte{[]byte("checking your browser"), []byte("cf-browser-verification"), []byte("cf-challenge")}
	captchaMarkers    = [][]byte{[]byte("g-recaptcha"), []byte("h-captcha"), []byte("captcha-container"), []byte("are you a robot")}
)

// DetectBlock inspects a fetched page for signs that the site served a
// challenge instead of content. Link discovery on such a page is useless.
func DetectBlock(resp *http.Response, body []byte) BlockType {
	if resp == nil {
		return BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-mitigated") != "" ||
			resp.Header.Get("server") == "cloudflare" {
			return BlockCloudflare
		}
	}

	lower := bytes.ToLower(body)
	if containsAny(lower, cloudflareMarkers) {
		return BlockCloudflare
	}
	if containsAny(lower, captchaMarkers) {
		return BlockCaptcha
	}

	// Tiny bodies that only bootstrap JavaScript have no links to follow.
	if len(body) < 2000 {
		if bytes.Contains(lower, []byte("<noscript")) && bytes.Contains(lower, []byte("enable javascript")) {
			return BlockJSShell
		}
		if bytes.Contains(lower, []byte(`http-equiv="refresh"`)) {
			return BlockJSShell
		}
	}
	return BlockNone
}

func containsAny(s []byte, markers [][]byte) bool {
	for _, m := range markers {
		if bytes.Contains(s, m) {
			return true
		}
	}
	return false
}
