package forum

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Markers identifies the structural class markers of the forum's rendered
// HTML. The values are emitted by the forum's front-end build and change
// whenever that build regenerates its style hashes, so they are injected
// rather than hard-coded.
type Markers struct {
	// Container marks the tag list of the primary post. Substring match:
	// sidebar recommendation lists use a different marker and never enter.
	Container string
	// Pill marks one tag pill. Space-separated class tokens that must appear
	// adjacent in the element's class attribute.
	Pill string
	// Exclusion marks count-badge pills ("+1" overflow counters).
	Exclusion string
	// Text marks the inner text node of a pill. Recognized only; text capture
	// does not depend on it.
	Text string
}

// TagScanner extracts tag labels from one HTML document. Scanner state lives
// per Scan call, so a single TagScanner is safe to reuse across documents.
type TagScanner struct {
	markers Markers
	pillRe  *regexp.Regexp
}

// NewTagScanner compiles the pill marker into a matcher and returns a scanner.
func NewTagScanner(m Markers) (*TagScanner, error) {
	if m.Container == "" || m.Pill == "" {
		return nil, fmt.Errorf("container and pill markers required")
	}

	tokens := strings.Fields(m.Pill)
	for i, t := range tokens {
		tokens[i] = regexp.QuoteMeta(t)
	}
	pillRe, err := regexp.Compile(strings.Join(tokens, `\s+`))
	if err != nil {
		return nil, fmt.Errorf("invalid pill marker: %w", err)
	}

	return &TagScanner{markers: m, pillRe: pillRe}, nil
}

// Scan tokenizes one document and returns the ordered, deduplicated tag
// labels of the primary post. A document without a primary container yields
// an empty slice. Unbalanced markup is not validated; the tokenizer stops at
// the first error (including EOF) and whatever was collected is returned.
func (s *TagScanner) Scan(r io.Reader) []string {
	var (
		tags = []string{}
		seen = make(map[string]struct{})

		inContainer    bool
		containerDepth int

		inPill        bool
		pillDepth     int
		expectingText bool
		text          strings.Builder
	)

	openDiv := func(class string) {
		if inContainer {
			containerDepth++
		} else if strings.Contains(class, s.markers.Container) {
			inContainer = true
			containerDepth = 1
		}

		if !inContainer {
			return
		}
		switch {
		case !inPill && s.pillRe.MatchString(class) && !strings.Contains(class, s.markers.Exclusion):
			inPill = true
			pillDepth = 1
			expectingText = true
			text.Reset()
		case inPill:
			pillDepth++
			if expectingText && strings.Contains(class, s.markers.Text) {
				expectingText = false
			}
		}
	}

	closeDiv := func() {
		if inContainer {
			containerDepth--
			if containerDepth == 0 {
				inContainer = false
			}
		}

		if !inPill {
			return
		}
		pillDepth--
		if pillDepth == 0 {
			label := strings.TrimSpace(text.String())
			if label != "" && !strings.HasPrefix(label, "+") {
				if _, dup := seen[label]; !dup {
					seen[label] = struct{}{}
					tags = append(tags, label)
				}
			}
			inPill = false
			text.Reset()
		}
	}

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tags

		case html.TextToken:
			if inPill {
				text.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, class := tagInfo(z)
			if name != "div" {
				continue
			}
			openDiv(class)
			if tt == html.SelfClosingTagToken {
				closeDiv()
			}

		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "div" {
				closeDiv()
			}
		}
	}
}

// ScanString scans an in-memory document.
func (s *TagScanner) ScanString(doc string) []string {
	return s.Scan(strings.NewReader(doc))
}

func tagInfo(z *html.Tokenizer) (name, class string) {
	tn, hasAttr := z.TagName()
	name = string(tn)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "class" {
			class = string(val)
		}
	}
	return name, class
}
