package markup

import (
	"bytes"
	"errors"
	"io"
	"net/url"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// mainSelectors is the candidate order for the content root, most specific
// first. body is the last resort before readability extraction.
var mainSelectors = []string{
	"main",
	"article",
	"#content",
	"#main",
	"#main-content",
	".content",
	".main-content",
	".article-content",
	"[role=main]",
	"body",
}

// HTMLDecoder extracts the main content region of a page and converts it
// to markdown flow text.
type HTMLDecoder struct {
	conv *converter.Converter
}

// NewHTMLDecoder builds a decoder. It is safe for concurrent use.
func NewHTMLDecoder() *HTMLDecoder {
	return &HTMLDecoder{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

func (d *HTMLDecoder) Decode(r io.Reader, src string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &DecodeError{Source: src, Err: err}
	}
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", &DecodeError{Source: src, Err: err}
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style, noscript, iframe, nav, header, footer, aside").Remove()

	out, err := d.convert(mainContent(doc), src)
	if err == nil && out == "" {
		// Pages whose chrome hides the text from the selector pass still
		// often yield to readability extraction.
		out, err = d.readable(data, src)
	}
	if err != nil {
		return "", &DecodeError{Source: src, Err: err}
	}
	if out == "" {
		return "", &DecodeError{Source: src, Err: errors.New("no textual content")}
	}
	return out, nil
}

// mainContent returns the first selector hit in priority order.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	return doc.Selection
}

func (d *HTMLDecoder) convert(sel *goquery.Selection, src string) (string, error) {
	raw, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", err
	}
	md, err := d.conv.ConvertString(raw, converter.WithDomain(hostOf(src)))
	if err != nil {
		return "", err
	}
	return tidy(md), nil
}

func (d *HTMLDecoder) readable(data []byte, src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(bytes.NewReader(data), u)
	if err != nil {
		return "", err
	}
	md, err := d.conv.ConvertString(article.Content, converter.WithDomain(hostOf(src)))
	if err != nil {
		return "", err
	}
	return tidy(md), nil
}

func hostOf(src string) string {
	if u, err := url.Parse(src); err == nil {
		return u.Host
	}
	return ""
}
