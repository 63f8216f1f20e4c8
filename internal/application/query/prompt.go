package query

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/firewatch/internal/domain"
)

// DefaultPreamble is the role text placed before the grounding data.
const DefaultPreamble = `You are an emergency response coordinator for an active forest fire incident.
Answer the question using the current incident data below. Say so when the data does not cover the question.
Use Markdown with a ## header and short sections. Put life safety first.`

type groundingData struct {
	Preamble string
	Overview domain.Overview
	Question string
	Updated  string
}

var groundingTemplate = template.Must(template.New("grounding").Parse(`{{.Preamble}}

Current incident data:
- Incident: {{.Overview.IncidentName}} (alert level {{.Overview.AlertLevel}}, {{.Overview.FireStatus}})
- Fire: {{.Overview.Fire.AcresBurned}} acres burned, {{.Overview.Fire.ContainmentPercent}}% contained
- People: {{.Overview.Impact.TotalAffected}} affected, {{.Overview.Impact.SevereInjuries}} severe injuries, {{.Overview.Impact.EvacuatedSafely}} evacuated safely, {{.Overview.Impact.Casualties}} casualties, {{.Overview.Impact.MissingPersons}} missing
- Population at risk: {{.Overview.Population.PopulationAtRisk}}{{if .Overview.Population.PopulationEstimated}} (estimate){{end}} across {{.Overview.Population.EvacuationZones}} evacuation zones; shelter capacity {{.Overview.Population.ShelterCapacity}}
- Structures: {{.Overview.Fire.StructuresThreatened}} threatened, {{.Overview.Fire.StructuresDestroyed}} destroyed
- Response: {{.Overview.Fire.FirefightersDeployed}} firefighters, {{.Overview.Fire.AircraftDeployed}} aircraft, {{.Overview.Fire.EquipmentUnits}} equipment units
{{- if .Overview.Unavailable}}
- Data unavailable: {{range $i, $s := .Overview.Unavailable}}{{if $i}}, {{end}}{{$s}}{{end}}
{{- end}}
- Last updated: {{.Updated}}

Question: {{.Question}}`))

func renderGroundingPrompt(preamble string, overview domain.Overview, question string) (string, error) {
	if strings.TrimSpace(preamble) == "" {
		preamble = DefaultPreamble
	}
	var buf bytes.Buffer
	err := groundingTemplate.Execute(&buf, groundingData{
		Preamble: strings.TrimSpace(preamble),
		Overview: overview,
		Question: question,
		Updated:  overview.LastUpdated.Format(domain.TimestampFormat),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
