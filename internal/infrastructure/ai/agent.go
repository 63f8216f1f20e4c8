package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

const (
	toolOverview  = "get_fire_overview"
	toolEvacuees  = "get_evacuees_status"
	toolZones     = "get_fire_zones"
	toolResources = "get_emergency_resources"
	toolSearch    = "search_emergency_data"
)

// AgentOptions configures the tool-calling backend.
type AgentOptions struct {
	GenAIOptions
	Incident     string
	MaxToolTurns int
}

// AgentBackend lets the model pull domain views through function calls
// before it answers.
type AgentBackend struct {
	model        string
	cred         domain.Credential
	session      *genaiSession
	views        ports.ViewFetcher
	maxTurns     int
	instructions string
}

// NewAgentBackend builds the agent-framework backend over views.
func NewAgentBackend(opts AgentOptions, views ports.ViewFetcher) (*AgentBackend, error) {
	return newAgentBackend(opts, views, genaiConnector(opts.Credential, opts.HTTPClient))
}

func newAgentBackend(opts AgentOptions, views ports.ViewFetcher, connect connectFunc) (*AgentBackend, error) {
	instructions, err := renderInstructions(opts.Incident, toolNames())
	if err != nil {
		return nil, fmt.Errorf("render agent instructions: %w", err)
	}
	return &AgentBackend{
		model:        valueOrDefault(opts.Model, domain.DefaultGeminiModel),
		cred:         opts.Credential,
		session:      &genaiSession{connect: connect},
		views:        views,
		maxTurns:     valueOrDefaultInt(opts.MaxToolTurns, domain.DefaultMaxToolTurns),
		instructions: instructions,
	}, nil
}

func (a *AgentBackend) Mode() domain.BackendMode {
	return domain.ModeAgentFramework
}

// Probe checks connectivity without declaring tools.
func (a *AgentBackend) Probe(ctx context.Context) error {
	gen, err := a.session.generator(ctx)
	if err != nil {
		return callError(a.Mode(), "probe", a.cred, err)
	}
	resp, err := gen.GenerateContent(ctx, a.model, genai.Text(probePrompt), nil)
	if err != nil {
		return callError(a.Mode(), "probe", a.cred, err)
	}
	if _, err := responseText(resp); err != nil {
		return callError(a.Mode(), "probe", a.cred, err)
	}
	return nil
}

func (a *AgentBackend) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	text, err := a.run(ctx, req.Prompt)
	if err != nil {
		return "", callError(a.Mode(), "complete", a.cred, err)
	}
	return text, nil
}

func (a *AgentBackend) run(ctx context.Context, prompt string) (string, error) {
	gen, err := a.session.generator(ctx)
	if err != nil {
		return "", err
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(a.instructions, genai.RoleUser),
		Tools:             []*genai.Tool{toolset()},
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	for turn := 0; ; turn++ {
		resp, err := gen.GenerateContent(ctx, a.model, contents, config)
		if err != nil {
			return "", err
		}
		if resp == nil {
			return "", fmt.Errorf("nil response")
		}
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return responseText(resp)
		}
		if turn >= a.maxTurns {
			return "", fmt.Errorf("model still calling tools after %d rounds", a.maxTurns)
		}
		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, a.invoke(ctx, call)))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
}

// invoke runs one tool call. Tool failures are reported to the model, not
// returned, so it can still answer from what it has.
func (a *AgentBackend) invoke(ctx context.Context, call *genai.FunctionCall) map[string]any {
	var view interface{}
	switch call.Name {
	case toolOverview:
		view = a.views.Overview(ctx)
	case toolEvacuees:
		view = a.views.Evacuees(ctx)
	case toolZones:
		view = a.views.Zones(ctx)
	case toolResources:
		view = a.views.Resources(ctx)
	case toolSearch:
		term, _ := call.Args["search_term"].(string)
		if strings.TrimSpace(term) == "" {
			return map[string]any{"error": "search_term is required"}
		}
		view = a.views.Search(ctx, term)
	default:
		return map[string]any{"error": "unknown tool " + call.Name}
	}
	out, err := toMap(view)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return out
}

func toolset() *genai.Tool {
	return &genai.Tool{FunctionDeclarations: []*genai.FunctionDeclaration{
		{Name: toolOverview, Description: "Incident overview: fire size, containment, casualties, population at risk and response figures."},
		{Name: toolEvacuees, Description: "Evacuees, incident impacts, shelter occupancy and evacuation statistics."},
		{Name: toolZones, Description: "Fire zones, affected communities and location categories."},
		{Name: toolResources, Description: "Fire equipment, personnel, resource requests and responding agencies."},
		{
			Name:        toolSearch,
			Description: "Search persons, locations and case numbers for a term.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"search_term": {Type: genai.TypeString, Description: "Name, place or case number to look for."},
				},
				Required: []string{"search_term"},
			},
		},
	}}
}

func toolNames() []string {
	decls := toolset().FunctionDeclarations
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	return names
}

var _ ports.Backend = (*AgentBackend)(nil)
