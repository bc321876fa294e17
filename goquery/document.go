// Package goquery implements serp.Parser on top of the goquery HTML
// document model.
package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/serp"
)

// Document is a read-only view of one parsed results page.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses raw markup into a Document.
func NewDocument(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, serp.Errorf(serp.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc}, nil
}

// ByClass returns all elements whose class list contains class, in
// document order.
func (d *Document) ByClass(class string) *goquery.Selection {
	return d.doc.Find(fmt.Sprintf("[class~=%q]", class))
}

// ByID returns all elements with the given id, in document order.
// Malformed markup may repeat an id; callers decide which one to use.
func (d *Document) ByID(id string) *goquery.Selection {
	return d.doc.Find(fmt.Sprintf("[id=%q]", id))
}

// Exists reports whether the selector matches at least one element.
func (d *Document) Exists(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

// Text returns the text content of the whole document.
func (d *Document) Text() string {
	return d.doc.Text()
}
