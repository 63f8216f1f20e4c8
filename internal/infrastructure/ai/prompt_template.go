package ai

import (
	"bytes"
	"strings"
	"text/template"
)

type instructionData struct {
	Incident string
	Tools    []string
}

// renderInstructions expands the agent's system instruction.
func renderInstructions(incident string, tools []string) (string, error) {
	tmpl, err := template.New("instructions").Parse(agentInstructions)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := instructionData{Incident: valueOrDefault(incident, "active wildfire incident"), Tools: tools}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

const agentInstructions = `You are the emergency coordination assistant for the {{.Incident}}.
Answer questions from incident managers using live data only.
Call the data tools before answering whenever the question needs figures:
{{- range .Tools}}
- {{.}}
{{- end}}
Format answers in Markdown: a ## header, ### subsections, **bold** for critical numbers.
Lead with life safety, then property, then recovery. Be urgent but calm.`
