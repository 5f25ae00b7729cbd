// Package html renders artifacts as self-contained HTML slide decks.
//
// Slide bodies are markdown converted with goldmark. Linear decks get
// previous/next navigation; graph decks get one choice link per successor,
// so the viewer picks the branch to follow.
package html

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/aretw0/deckflow/internal/adapters/file"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer implements ports.Renderer.
type Renderer struct {
	markdown goldmark.Markdown
	page     *template.Template
}

// New creates an HTML renderer with GitHub-flavored markdown enabled.
func New() *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		page:     template.Must(template.New("deck").Parse(deckTemplate)),
	}
}

type link struct {
	Anchor string
	Label  string
}

type slideView struct {
	Anchor  string
	StepID  string
	Title   string
	Version int
	Body    template.HTML
	Links   []link
}

type deckView struct {
	Title   string
	Mode    domain.Mode
	Version int
	Slides  []slideView
}

// Render converts the artifact and writes it atomically into outputDir.
func (r *Renderer) Render(ctx context.Context, outputDir string, artifact *domain.Artifact) error {
	data, err := r.Bytes(artifact)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return file.WriteAtomic(outputDir, artifact.FileName, data)
}

// Bytes renders the artifact to an HTML document in memory.
func (r *Renderer) Bytes(artifact *domain.Artifact) ([]byte, error) {
	anchors := make(map[string]string, len(artifact.Slides))
	labels := make(map[string]string, len(artifact.Slides))
	for i, s := range artifact.Slides {
		anchors[s.StepID] = "slide-" + strconv.Itoa(i)
		labels[s.StepID] = s.StepID
		if s.Title != "" {
			labels[s.StepID] = s.Title
		}
	}

	view := deckView{
		Title:   artifact.Name,
		Mode:    artifact.Mode,
		Version: artifact.Version,
		Slides:  make([]slideView, 0, len(artifact.Slides)),
	}

	for i, s := range artifact.Slides {
		var body bytes.Buffer
		if err := r.markdown.Convert([]byte(s.Body), &body); err != nil {
			return nil, fmt.Errorf("failed to convert slide %s: %w", s.StepID, err)
		}

		sv := slideView{
			Anchor:  anchors[s.StepID],
			StepID:  s.StepID,
			Title:   s.Title,
			Version: s.Version,
			// goldmark escapes raw HTML unless WithUnsafe is set.
			Body: template.HTML(body.String()),
		}

		if artifact.Mode == domain.ModeGraph {
			for _, next := range artifact.Links[s.StepID] {
				anchor, ok := anchors[next]
				if !ok {
					return nil, fmt.Errorf("slide %s links to %s which is not in the deck", s.StepID, next)
				}
				sv.Links = append(sv.Links, link{Anchor: anchor, Label: labels[next]})
			}
		} else {
			if i > 0 {
				sv.Links = append(sv.Links, link{Anchor: anchors[artifact.Slides[i-1].StepID], Label: "Previous"})
			}
			if i < len(artifact.Slides)-1 {
				sv.Links = append(sv.Links, link{Anchor: anchors[artifact.Slides[i+1].StepID], Label: "Next"})
			}
		}

		view.Slides = append(view.Slides, sv)
	}

	var out bytes.Buffer
	if err := r.page.Execute(&out, view); err != nil {
		return nil, fmt.Errorf("failed to execute deck template: %w", err)
	}
	return out.Bytes(), nil
}

const deckTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<meta name="generator" content="deckflow" />
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; background: #111827; color: #f9fafb; }
  section.slide { display: none; min-height: 100vh; box-sizing: border-box; padding: 4rem 8vw; }
  section.slide:first-of-type, section.slide:target { display: block; }
  body:has(section.slide:target) section.slide:first-of-type:not(:target) { display: none; }
  nav { margin-top: 3rem; display: flex; gap: 1rem; }
  nav a { color: #111827; background: #a78bfa; padding: .5rem 1rem; border-radius: .375rem; text-decoration: none; }
  footer { margin-top: 2rem; font-size: .75rem; color: #9ca3af; }
</style>
</head>
<body data-mode="{{.Mode}}" data-version="{{.Version}}">
{{- range .Slides}}
<section class="slide" id="{{.Anchor}}" data-step="{{.StepID}}">
{{.Body}}
  <nav>
  {{- range .Links}}
    <a href="#{{.Anchor}}">{{.Label}}</a>
  {{- end}}
  </nav>
  <footer>{{.StepID}} &middot; v{{.Version}}</footer>
</section>
{{- end}}
</body>
</html>
`
