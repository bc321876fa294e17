package fs

import (
	"strings"
	"time"

	"github.com/fwojciec/serp"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header written above each record.
type FrontMatter struct {
	ID            string   `yaml:"id"`
	Source        string   `yaml:"source"`
	Engine        string   `yaml:"engine"`
	Domain        string   `yaml:"domain"`
	Start         int      `yaml:"start"`
	Page          int      `yaml:"page"`
	Results       int      `yaml:"results"`
	TotalResults  *int64   `yaml:"total_results,omitempty"`
	RetrievalTime *float64 `yaml:"retrieval_time,omitempty"`
	Location      *string  `yaml:"location,omitempty"`
	ContentHash   string   `yaml:"content_hash,omitempty"`
	Parsed        string   `yaml:"parsed"`
}

// FormatRecord renders a record as markdown with YAML front matter followed
// by the human-readable page summary.
func FormatRecord(rec *serp.Record) (string, error) {
	p := rec.Page
	fm := FrontMatter{
		ID:            rec.ID,
		Source:        p.SourceURL,
		Engine:        string(p.Engine),
		Domain:        p.Domain,
		Start:         p.StartOffset,
		Page:          p.PageNumber,
		Results:       p.NumResults(),
		TotalResults:  p.TotalResults,
		RetrievalTime: p.RetrievalTime,
		Location:      p.Location,
		ContentHash:   rec.ContentHash,
		Parsed:        rec.ParsedAt.Format(time.RFC3339),
	}

	header, err := yaml.Marshal(&fm)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(serp.FormatPage(p))
	return b.String(), nil
}

// ParseFrontMatter reads the YAML header back from formatted record content.
func ParseFrontMatter(content string) (*FrontMatter, error) {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return nil, serp.Errorf(serp.EINVALID, "missing front matter")
	}
	header, _, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return nil, serp.Errorf(serp.EINVALID, "unterminated front matter")
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, serp.Errorf(serp.EINVALID, "invalid front matter: %v", err)
	}
	return &fm, nil
}
