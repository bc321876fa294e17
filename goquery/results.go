package goquery

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// redirectPrefix marks a result link routed through the engine's click
// tracking redirect. The destination is the value of its q parameter.
const redirectPrefix = "/url?q="

// Raw patterns over serialized markup. Used only when no href attribute
// carries the value, e.g. when the link sits in a data attribute.
var (
	rawRedirectPattern = regexp.MustCompile(`/url\?q=([^"\n]*)"`)
	rawHrefPattern     = regexp.MustCompile(`href="([^"\n]*)"`)
)

// extractResultLinks returns the destination URL of every organic result
// element in document order. It returns false if there are no result
// elements or none of them yields a URL.
func extractResultLinks(doc *Document, class string) ([]string, bool) {
	elements := doc.ByClass(class)
	if elements.Length() == 0 {
		return nil, false
	}

	var links []string
	elements.Each(func(_ int, sel *goquery.Selection) {
		if link, ok := resultLink(sel); ok {
			links = append(links, link)
		}
	})

	if len(links) == 0 {
		return nil, false
	}
	return links, true
}

// resultLink extracts at most one URL from a result element. The redirect
// parameter takes priority over a plain href. An element that carries a
// redirect parameter without a terminating ampersand yields nothing.
func resultLink(sel *goquery.Selection) (string, bool) {
	hrefs := hrefValues(sel)

	if param, found := redirectParam(sel, hrefs); found {
		target, _, terminated := strings.Cut(param, "&")
		if !terminated || target == "" {
			return "", false
		}
		return target, true
	}

	return directHref(sel, hrefs)
}

// hrefValues returns the href attributes of the element and its
// descendants in document order.
func hrefValues(sel *goquery.Selection) []string {
	var values []string
	sel.Filter("[href]").AddSelection(sel.Find("[href]")).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		values = append(values, href)
	})
	return values
}

func redirectParam(sel *goquery.Selection, hrefs []string) (string, bool) {
	for _, href := range hrefs {
		if i := strings.Index(href, redirectPrefix); i >= 0 {
			return href[i+len(redirectPrefix):], true
		}
	}

	m := rawRedirectPattern.FindStringSubmatch(outerHTML(sel))
	if m == nil {
		return "", false
	}
	return html.UnescapeString(m[1]), true
}

func directHref(sel *goquery.Selection, hrefs []string) (string, bool) {
	for _, href := range hrefs {
		if href != "" {
			return href, true
		}
	}

	for _, m := range rawHrefPattern.FindAllStringSubmatch(outerHTML(sel), -1) {
		if href := html.UnescapeString(m[1]); href != "" {
			return href, true
		}
	}
	return "", false
}

func outerHTML(sel *goquery.Selection) string {
	s, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return s
}
