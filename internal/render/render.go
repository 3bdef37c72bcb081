// Package render turns fragments into HTML for the workspace viewers.
// Each kind has its own renderer; markdown-shaped kinds go through
// goldmark with GFM tables enabled.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// Renderer renders one fragment kind to HTML.
type Renderer interface {
	Render(f *domain.Fragment) (string, error)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithHardWraps()),
)

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// FormulaRenderer wraps the raw LaTeX body for a client-side typesetter.
type FormulaRenderer struct{}

func (FormulaRenderer) Render(f *domain.Fragment) (string, error) {
	return fmt.Sprintf(`<div class="formula">\[%s\]</div>`, html.EscapeString(f.Body)), nil
}

// TableRenderer renders the pipe table through goldmark GFM.
type TableRenderer struct{}

func (TableRenderer) Render(f *domain.Fragment) (string, error) {
	out, err := renderMarkdown(f.Body)
	if err != nil {
		return "", err
	}
	return `<div class="table-fragment">` + out + `</div>`, nil
}

// ResearchRenderer renders the summary paragraph as markdown.
type ResearchRenderer struct{}

func (ResearchRenderer) Render(f *domain.Fragment) (string, error) {
	out, err := renderMarkdown(f.Body)
	if err != nil {
		return "", err
	}
	return `<div class="research-fragment">` + out + `</div>`, nil
}

// DiagramRenderer emits the mermaid source for client-side rendering.
type DiagramRenderer struct{}

func (DiagramRenderer) Render(f *domain.Fragment) (string, error) {
	return `<pre class="mermaid">` + html.EscapeString(f.Body) + `</pre>`, nil
}

// ImageRenderer renders the materialized payload, or a placeholder while
// the image is pending or after it failed.
type ImageRenderer struct{}

func (ImageRenderer) Render(f *domain.Fragment) (string, error) {
	alt := html.EscapeString(f.Title)
	switch f.State {
	case domain.MaterializationReady:
		src := f.Payload
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") && !strings.HasPrefix(src, "data:") {
			src = "data:image/png;base64," + src
		}
		return fmt.Sprintf(`<img class="image-fragment" src=%q alt=%q>`, src, alt), nil
	case domain.MaterializationFailed:
		return fmt.Sprintf(`<div class="image-fragment failed">Image generation failed: %s</div>`, html.EscapeString(f.Body)), nil
	default:
		return fmt.Sprintf(`<div class="image-fragment pending">Generating image: %s</div>`, html.EscapeString(f.Body)), nil
	}
}

// NoteRenderer renders user notes as markdown.
type NoteRenderer struct{}

func (NoteRenderer) Render(f *domain.Fragment) (string, error) {
	out, err := renderMarkdown(f.Body)
	if err != nil {
		return "", err
	}
	return `<div class="note-fragment">` + out + `</div>`, nil
}

var renderers = map[domain.FragmentKind]Renderer{
	domain.FragmentFormula:  FormulaRenderer{},
	domain.FragmentTable:    TableRenderer{},
	domain.FragmentResearch: ResearchRenderer{},
	domain.FragmentDiagram:  DiagramRenderer{},
	domain.FragmentImage:    ImageRenderer{},
	domain.FragmentNote:     NoteRenderer{},
}

// Fragment renders a single fragment with the renderer for its kind.
func Fragment(f *domain.Fragment) (string, error) {
	r, ok := renderers[f.Kind]
	if !ok {
		return "", fmt.Errorf("no renderer for kind %q", f.Kind)
	}
	return r.Render(f)
}

// Workspace renders all fragments in order into one HTML document body,
// each wrapped in a section carrying its ID and kind.
func Workspace(fragments []domain.Fragment) (string, error) {
	var b strings.Builder
	for i := range fragments {
		f := &fragments[i]
		out, err := Fragment(f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "<section id=%q data-kind=%q>\n", f.FragmentID, f.Kind)
		if f.Title != "" {
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(f.Title))
		}
		b.WriteString(out)
		b.WriteString("\n</section>\n")
	}
	return b.String(), nil
}
