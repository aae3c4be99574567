package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"

	"google.golang.org/api/gmail/v1"
)

const (
	// MaxBodyLength is the number of characters kept from a decoded body.
	MaxBodyLength    = 5000
	TruncationMarker = "\n\n[... Email truncated ...]"
)

var (
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
)

// ExtractBody returns the readable text of a message payload: plain text
// parts win, HTML is used only when no plain text part exists.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	var body string
	if payload.Body != nil && payload.Body.Data != "" {
		body = decodePart(payload.Body.Data)
		if strings.EqualFold(payload.MimeType, "text/html") {
			body = StripHTML(body)
		}
	} else {
		plain, html := findBody(payload.Parts)
		if plain != "" {
			body = plain
		} else if html != "" {
			body = StripHTML(html)
		}
	}

	return Truncate(CleanBody(body), MaxBodyLength)
}

// findBody walks the part tree, concatenating plain text parts and keeping
// the first HTML part.
func findBody(parts []*gmail.MessagePart) (plain, html string) {
	var plainBuilder strings.Builder

	var walk func(parts []*gmail.MessagePart)
	walk = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			hasData := part.Body != nil && part.Body.Data != ""
			switch {
			case strings.EqualFold(part.MimeType, "text/plain") && hasData:
				plainBuilder.WriteString(decodePart(part.Body.Data))
			case strings.EqualFold(part.MimeType, "text/html") && hasData:
				if html == "" {
					html = decodePart(part.Body.Data)
				}
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(parts)

	return plainBuilder.String(), html
}

func decodePart(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

// StripHTML drops style and script blocks, replaces tags with spaces and
// decodes the common entities.
func StripHTML(html string) string {
	text := styleBlockRe.ReplaceAllString(html, "")
	text = scriptBlockRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)
	return spaceRunRe.ReplaceAllString(text, " ")
}

// CleanBody normalizes line endings, collapses three or more newlines into
// two and trims surrounding whitespace.
func CleanBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = blankLinesRe.ReplaceAllString(body, "\n\n")
	return strings.TrimSpace(body)
}

// Truncate cuts body to max characters and appends TruncationMarker when
// anything was removed.
func Truncate(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + TruncationMarker
}
