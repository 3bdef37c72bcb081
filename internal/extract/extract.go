// Package extract scans assistant-generated text for embedded structured
// fragments: formulas, tables, research summaries, diagrams, and image
// generation requests.
//
// Each matcher is independent and scans the whole text, so a single reply
// can yield fragments of every kind. The extractor is total over its input:
// no match means no fragments, never an error.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/solvesphere/solvesphere/internal/domain"
)

var (
	// Non-greedy so each $$ pair closes at the nearest terminator; a lone
	// $$ with no partner never matches.
	formulaRe = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)

	// Fenced mermaid block. Body is everything between the fences.
	diagramRe = regexp.MustCompile("(?s)```mermaid[ \t]*\n(.*?)```")

	imageRe = regexp.MustCompile(`!IMAGE\[([^\]]*)\]`)
)

// diagramLabels maps the first keyword of a mermaid body to a display label.
var diagramLabels = map[string]string{
	"flowchart":       "Flowchart",
	"graph":           "Flowchart",
	"sequenceDiagram": "Sequence Diagram",
	"classDiagram":    "Class Diagram",
	"erDiagram":       "ER Diagram",
	"gantt":           "Gantt Chart",
	"pie":             "Pie Chart",
	"stateDiagram":    "State Diagram",
	"stateDiagram-v2": "State Diagram",
}

// defaultDiagramLabel is used when the first keyword is not recognized.
const defaultDiagramLabel = "Diagram"

type match struct {
	start   int
	kind    domain.FragmentKind
	body    string
	label   string // title stem; numbered per extraction call
	pending bool
}

// Extract scans text and returns the fragments it contains, in order of
// first appearance. Fragment titles are numbered per kind within this call
// ("Formula 1", "Formula 2", ...); numbering restarts on every call.
func Extract(sourceMessageID, text string) []domain.Fragment {
	var matches []match
	matches = append(matches, matchFormulas(text)...)
	matches = append(matches, matchTables(text)...)
	matches = append(matches, matchResearch(text)...)
	matches = append(matches, matchDiagrams(text)...)
	matches = append(matches, matchImages(text)...)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	now := time.Now()
	counts := map[domain.FragmentKind]int{}
	fragments := make([]domain.Fragment, 0, len(matches))
	for _, m := range matches {
		counts[m.kind]++
		frag := domain.Fragment{
			FragmentID:      "frag_" + uuid.New().String()[:8],
			Kind:            m.kind,
			Title:           m.label + " " + strconv.Itoa(counts[m.kind]),
			Body:            m.body,
			SourceMessageID: sourceMessageID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if m.pending {
			frag.State = domain.MaterializationPending
		}
		fragments = append(fragments, frag)
	}
	return fragments
}

func matchFormulas(text string) []match {
	var out []match
	for _, loc := range formulaRe.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, match{
			start: loc[0],
			kind:  domain.FragmentFormula,
			body:  text[loc[2]:loc[3]],
			label: "Formula",
		})
	}
	return out
}

// matchTables finds maximal runs of consecutive lines that begin and end
// with a pipe. The raw block, separator row included, is the body.
func matchTables(text string) []match {
	var out []match
	offset := 0
	var blockStart = -1
	var blockLines []string

	flush := func() {
		if blockStart >= 0 {
			out = append(out, match{
				start: blockStart,
				kind:  domain.FragmentTable,
				body:  strings.Join(blockLines, "\n"),
				label: "Table",
			})
			blockStart = -1
			blockLines = nil
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		raw := strings.TrimRight(line, "\n")
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) >= 2 && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			if blockStart < 0 {
				blockStart = offset
			}
			blockLines = append(blockLines, raw)
		} else {
			flush()
		}
		offset += len(line)
	}
	flush()
	return out
}

// matchResearch finds paragraphs whose first line starts with "Research:"
// or "Study:". The body is the token line plus all immediately following
// non-blank, non-heading lines.
func matchResearch(text string) []match {
	var out []match
	offset := 0
	lines := strings.SplitAfter(text, "\n")
	for i := 0; i < len(lines); i++ {
		raw := strings.TrimRight(lines[i], "\n")
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "Research:") || strings.HasPrefix(trimmed, "Study:") {
			body := []string{raw}
			start := offset
			consumed := len(lines[i])
			for j := i + 1; j < len(lines); j++ {
				next := strings.TrimRight(lines[j], "\n")
				nextTrimmed := strings.TrimSpace(next)
				if nextTrimmed == "" || strings.HasPrefix(nextTrimmed, "#") {
					break
				}
				body = append(body, next)
				consumed += len(lines[j])
				i = j
			}
			out = append(out, match{
				start: start,
				kind:  domain.FragmentResearch,
				body:  strings.Join(body, "\n"),
				label: "Research Summary",
			})
			offset += consumed
			continue
		}
		offset += len(lines[i])
	}
	return out
}

func matchDiagrams(text string) []match {
	var out []match
	for _, loc := range diagramRe.FindAllStringSubmatchIndex(text, -1) {
		body := strings.TrimSpace(text[loc[2]:loc[3]])
		out = append(out, match{
			start: loc[0],
			kind:  domain.FragmentDiagram,
			body:  body,
			label: DiagramLabel(body),
		})
	}
	return out
}

func matchImages(text string) []match {
	var out []match
	for _, loc := range imageRe.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, match{
			start:   loc[0],
			kind:    domain.FragmentImage,
			body:    text[loc[2]:loc[3]],
			label:   "Image",
			pending: true,
		})
	}
	return out
}

// DiagramLabel infers a display label from the first keyword of a mermaid
// body, falling back to a generic label.
func DiagramLabel(body string) string {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return defaultDiagramLabel
	}
	if label, ok := diagramLabels[fields[0]]; ok {
		return label
	}
	return defaultDiagramLabel
}
