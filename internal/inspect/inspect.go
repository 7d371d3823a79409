// Package inspect reads back the metadata present in a document head.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

// Entry is one metadata element. Key is "title", "canonical", a meta name
// (e.g. "description", "twitter:card") or a meta property (e.g. "og:title").
type Entry struct {
	Key   string
	Value string
}

// Summary lists head metadata in document order.
type Summary struct {
	Entries []Entry
}

// Read parses an HTML document and summarizes its head.
func Read(r io.Reader) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocument, "failed to parse HTML").Build()
	}
	return summarize(doc.Selection), nil
}

// Node summarizes the head of an already parsed tree.
func Node(root *html.Node) *Summary {
	return summarize(goquery.NewDocumentFromNode(root).Selection)
}

func summarize(doc *goquery.Selection) *Summary {
	s := &Summary{}
	doc.Find("head").First().Children().Each(func(_ int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "title":
			s.Entries = append(s.Entries, Entry{Key: "title", Value: el.Text()})
		case "link":
			if rel, _ := el.Attr("rel"); rel == "canonical" {
				href, _ := el.Attr("href")
				s.Entries = append(s.Entries, Entry{Key: "canonical", Value: href})
			}
		case "meta":
			key, ok := el.Attr("property")
			if !ok {
				key, ok = el.Attr("name")
			}
			if !ok {
				return
			}
			content, _ := el.Attr("content")
			s.Entries = append(s.Entries, Entry{Key: key, Value: content})
		}
	})
	return s
}

// Values returns every value recorded under key.
func (s *Summary) Values(key string) []string {
	var out []string
	for _, e := range s.Entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Missing returns the keys from required that have no non-empty value.
func (s *Summary) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		found := false
		for _, v := range s.Values(key) {
			if strings.TrimSpace(v) != "" {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, key)
		}
	}
	return missing
}

// Write prints one "key: value" line per entry.
func (s *Summary) Write(w io.Writer) error {
	for _, e := range s.Entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
