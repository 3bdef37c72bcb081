package render

import (
	"strings"
	"testing"

	"github.com/solvesphere/solvesphere/internal/domain"
)

func TestFormulaRenderer(t *testing.T) {
	f := &domain.Fragment{Kind: domain.FragmentFormula, Body: "e=mc^2"}
	out, err := Fragment(f)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, `\[e=mc^2\]`) {
		t.Fatalf("expected delimited formula, got %q", out)
	}
}

func TestFormulaRendererEscapes(t *testing.T) {
	f := &domain.Fragment{Kind: domain.FragmentFormula, Body: "a < b"}
	out, err := Fragment(f)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(out, "a < b") {
		t.Fatalf("body must be escaped: %q", out)
	}
}

func TestTableRenderer(t *testing.T) {
	f := &domain.Fragment{Kind: domain.FragmentTable, Body: "| a | b |\n|---|---|\n| 1 | 2 |"}
	out, err := Fragment(f)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<td>1</td>") {
		t.Fatalf("expected an HTML table, got %q", out)
	}
}

func TestDiagramRenderer(t *testing.T) {
	f := &domain.Fragment{Kind: domain.FragmentDiagram, Body: "flowchart TD\nA-->B"}
	out, err := Fragment(f)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, `<pre class="mermaid">`) {
		t.Fatalf("expected mermaid pre block, got %q", out)
	}
	if !strings.Contains(out, "A--&gt;B") {
		t.Fatalf("diagram source must be escaped: %q", out)
	}
}

func TestImageRendererStates(t *testing.T) {
	pending := &domain.Fragment{Kind: domain.FragmentImage, Body: "a cat", State: domain.MaterializationPending}
	out, err := Fragment(pending)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "pending") || !strings.Contains(out, "a cat") {
		t.Fatalf("expected pending placeholder, got %q", out)
	}

	ready := &domain.Fragment{Kind: domain.FragmentImage, Title: "Image 1", State: domain.MaterializationReady, Payload: "AAAA"}
	out, err = Fragment(ready)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "data:image/png;base64,AAAA") {
		t.Fatalf("base64 payload should become a data URI: %q", out)
	}

	remote := &domain.Fragment{Kind: domain.FragmentImage, State: domain.MaterializationReady, Payload: "https://img.example/x.png"}
	out, err = Fragment(remote)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, `src="https://img.example/x.png"`) {
		t.Fatalf("URL payload should be used as-is: %q", out)
	}

	failed := &domain.Fragment{Kind: domain.FragmentImage, Body: "a cat", State: domain.MaterializationFailed}
	out, err = Fragment(failed)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "failed") {
		t.Fatalf("expected failure placeholder, got %q", out)
	}
}

func TestFragmentUnknownKind(t *testing.T) {
	f := &domain.Fragment{Kind: "bogus"}
	if _, err := Fragment(f); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestWorkspace(t *testing.T) {
	frags := []domain.Fragment{
		{FragmentID: "f1", Kind: domain.FragmentFormula, Title: "Formula 1", Body: "x"},
		{FragmentID: "f2", Kind: domain.FragmentResearch, Title: "Research Summary 1", Body: "Research: finding."},
	}
	out, err := Workspace(frags)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, `<section id="f1"`) || !strings.Contains(out, `<section id="f2"`) {
		t.Fatalf("expected one section per fragment: %q", out)
	}
	if strings.Index(out, "f1") > strings.Index(out, "f2") {
		t.Fatalf("sections out of order: %q", out)
	}
	if !strings.Contains(out, "<h3>Formula 1</h3>") {
		t.Fatalf("expected title heading: %q", out)
	}
}
