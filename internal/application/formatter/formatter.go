// Package formatter renders domain views as markdown answers without any
// network access. It is the fallback path behind every backend mode.
package formatter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// Branch names one rendering strategy.
type Branch string

const (
	BranchOverview   Branch = "overview"
	BranchEvacuation Branch = "evacuation"
	BranchZones      Branch = "zones"
	BranchResources  Branch = "resources"
	BranchSearch     Branch = "search"
	BranchHelp       Branch = "help"
)

// listLimit caps how many rows of each list appear in an answer.
const listLimit = 5

type strategy struct {
	branch   Branch
	keywords []string
	render   func(ctx context.Context, f *Formatter, req domain.QueryRequest, views ports.ViewFetcher) (string, error)
}

// strategies is walked in order; the first keyword hit wins. "status" belongs to
// the overview set only, and "fire" is left out because nearly every question
// mentions it.
var strategies = []strategy{
	{
		branch:   BranchOverview,
		keywords: []string{"overview", "status", "situation", "containment", "acre"},
		render: func(ctx context.Context, f *Formatter, _ domain.QueryRequest, views ports.ViewFetcher) (string, error) {
			return f.execute("overview", views.Overview(ctx))
		},
	},
	{
		branch:   BranchEvacuation,
		keywords: []string{"evacuee", "evacuation", "evacuate", "people", "shelter"},
		render: func(ctx context.Context, f *Formatter, _ domain.QueryRequest, views ports.ViewFetcher) (string, error) {
			v := views.Evacuees(ctx)
			return f.execute("evacuation", evacuationData{View: v, Recent: head(v.Evacuees, listLimit)})
		},
	},
	{
		branch:   BranchZones,
		keywords: []string{"zone", "location", "community", "area", "map"},
		render: func(ctx context.Context, f *Formatter, _ domain.QueryRequest, views ports.ViewFetcher) (string, error) {
			v := views.Zones(ctx)
			return f.execute("zones", zonesData{View: v, Communities: head(v.Communities, listLimit)})
		},
	},
	{
		branch:   BranchResources,
		keywords: []string{"resource", "equipment", "personnel", "staff", "crew", "vehicle"},
		render: func(ctx context.Context, f *Formatter, _ domain.QueryRequest, views ports.ViewFetcher) (string, error) {
			v := views.Resources(ctx)
			return f.execute("resources", resourcesData{View: v, Equipment: head(v.Equipment, listLimit)})
		},
	},
}

type evacuationData struct {
	View   domain.EvacueeStatus
	Recent []domain.Evacuee
}

type zonesData struct {
	View        domain.ZoneStatus
	Communities []domain.Community
}

type resourcesData struct {
	View      domain.ResourceStatus
	Equipment []domain.Equipment
}

type searchData struct {
	Query string
	View  domain.SearchResult
}

// Formatter holds the parsed answer templates. It is safe for concurrent use.
type Formatter struct {
	templates *template.Template
}

// New parses the built-in templates.
func New() *Formatter {
	return &Formatter{
		templates: template.Must(template.New("answers").Funcs(funcMap).Parse(answerTemplates)),
	}
}

// Route reports which branch Format would take for text.
func Route(text string) Branch {
	lower := strings.ToLower(text)
	for _, s := range strategies {
		if matchesAny(lower, s.keywords) {
			return s.branch
		}
	}
	return BranchSearch
}

// Format answers req from freshly built views. The result is never empty.
func (f *Formatter) Format(ctx context.Context, req domain.QueryRequest, views ports.ViewFetcher) string {
	lower := req.Lower()
	for _, s := range strategies {
		if !matchesAny(lower, s.keywords) {
			continue
		}
		out, err := s.render(ctx, f, req, views)
		if err != nil {
			return renderFailure(s.branch, err)
		}
		return out
	}

	result := views.Search(ctx, req.Text)
	name := "search"
	if result.Summary.TotalResults == 0 {
		name = "help"
	}
	out, err := f.execute(name, searchData{Query: req.Text, View: result})
	if err != nil {
		return renderFailure(Branch(name), err)
	}
	return out
}

// FormatBranch renders one branch directly, bypassing keyword routing. term is
// used only by BranchSearch.
func (f *Formatter) FormatBranch(ctx context.Context, branch Branch, term string, views ports.ViewFetcher) string {
	for _, s := range strategies {
		if s.branch != branch {
			continue
		}
		out, err := s.render(ctx, f, domain.QueryRequest{Text: term}, views)
		if err != nil {
			return renderFailure(branch, err)
		}
		return out
	}
	if branch != BranchSearch || strings.TrimSpace(term) == "" {
		return f.Help()
	}
	out, err := f.execute("search", searchData{Query: term, View: views.Search(ctx, term)})
	if err != nil {
		return renderFailure(branch, err)
	}
	return out
}

// Help returns the static guidance text.
func (f *Formatter) Help() string {
	out, err := f.execute("help", searchData{})
	if err != nil {
		return renderFailure(BranchHelp, err)
	}
	return out
}

func (f *Formatter) execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := f.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

func renderFailure(branch Branch, err error) string {
	return fmt.Sprintf("## Forest Fire Emergency Information\n\nThe %s summary could not be rendered (%v).\n", branch, err)
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
