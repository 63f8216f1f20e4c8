package formatter

import (
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/firewatch/internal/domain"
)

var funcMap = template.FuncMap{
	"comma": comma,
	"pct":   pct,
	"stamp": func(t time.Time) string { return t.Format(domain.TimestampFormat) },
	"join":  strings.Join,
}

func comma(v interface{}) string {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case float64:
		return humanize.Commaf(n)
	default:
		return "0"
	}
}

func pct(v float64) string {
	return humanize.Ftoa(v) + "%"
}

const answerTemplates = `
{{- define "unavailable" -}}
{{- if . }}
_Data unavailable for: {{ join . ", " }}_
{{ end -}}
{{- end -}}

{{- define "overview" -}}
## {{ .IncidentName }} - Situation Overview

- **Current Status:** {{ .FireStatus }}
- **Alert Level:** {{ .AlertLevel }}
- **Fire Size:** {{ comma .Fire.AcresBurned }} acres burned
- **Containment:** {{ .Fire.ContainmentPercent }}% contained

### Human Impact
- Total Affected: {{ comma .Impact.TotalAffected }} people
- Severe Injuries: {{ comma .Impact.SevereInjuries }}
- Evacuated Safely: {{ comma .Impact.EvacuatedSafely }}
- Casualties: {{ comma .Impact.Casualties }}
- Missing Persons: {{ comma .Impact.MissingPersons }}

### Population
- Registered Persons: {{ comma .Population.TotalRegisteredPersons }}
- Population at Risk: {{ comma .Population.PopulationAtRisk }}{{ if .Population.PopulationEstimated }} (estimated){{ end }}
- Evacuation Zones: {{ .Population.EvacuationZones }}
- Shelter Capacity: {{ comma .Population.ShelterCapacity }}

### Structures
- Threatened: {{ comma .Fire.StructuresThreatened }}
- Destroyed: {{ comma .Fire.StructuresDestroyed }}

### Response
- Firefighters: {{ comma .Fire.FirefightersDeployed }}
- Aircraft: {{ .Fire.AircraftDeployed }}
- Equipment Units: {{ comma .Fire.EquipmentUnits }}
{{ template "unavailable" .Unavailable }}
*Last updated: {{ stamp .LastUpdated }}*
{{- end -}}

{{- define "evacuation" -}}
## Evacuation & Evacuee Status

### Statistics
- Total Evacuees: {{ .View.Statistics.TotalEvacuees }}
- Incident Impacts: {{ .View.Statistics.TotalIncidents }}
- Hospitalized: {{ .View.Statistics.Hospitalized }}
- Evacuation Success Rate: {{ pct .View.Statistics.EvacuationSuccessRate }}
- Shelter Occupancy: {{ comma .View.Statistics.ShelterOccupied }}/{{ comma .View.Statistics.ShelterCapacity }} ({{ pct .View.Statistics.ShelterOccupancyRate }})

### Shelters
{{- range .View.Shelters }}
- {{ .Name }}: {{ .Occupied }}/{{ .Capacity }} occupied, {{ .Available }} available ({{ pct .OccupancyRate }})
{{- else }}
- No shelters configured
{{- end }}

### Recent Evacuees
{{- range .Recent }}
- {{ .EvacueeID }} {{ .Name }} - {{ .Status }} ({{ .ShelterAssignment }})
{{- else }}
- No evacuees registered
{{- end }}
{{ template "unavailable" .View.Unavailable }}
{{- end -}}

{{- define "zones" -}}
## Fire Zones & Affected Areas

### Active Fire Zones
{{- range .View.FireZones }}
- {{ .Name }} ({{ .ZoneID }}): {{ comma .AreaAcres }} acres, {{ .ThreatLevel }} threat, evacuation {{ .EvacuationStatus }}
{{- else }}
- No fire zones configured
{{- end }}

### Affected Communities
{{- range .Communities }}
- {{ .Name }}: {{ .EvacuationStatus }} (Pop: {{ comma .Population }}, {{ .DistanceMiles }} mi, road access {{ .RoadAccess }})
{{- else }}
- No communities recorded
{{- end }}

### Totals
- Fire Zones: {{ .View.Statistics.TotalFireZones }}
- Area Threatened: {{ comma .View.Statistics.TotalAreaThreatened }} acres
- Population at Risk: {{ comma .View.Statistics.TotalPopulationAtRisk }}
- Shelter Locations: {{ len .View.Categories.Shelters }}
- Fire Stations: {{ len .View.Categories.FireStations }}
{{ template "unavailable" .View.Unavailable }}
{{- end -}}

{{- define "resources" -}}
## Emergency Resources & Personnel

### Personnel Deployed
- Firefighters: {{ comma .View.Personnel.Firefighters }}
- Support Staff: {{ comma .View.Personnel.SupportStaff }}
- Volunteers: {{ comma .View.Personnel.Volunteers }}
- Agencies: {{ .View.Personnel.AgenciesInvolved }}

### Equipment Status
{{- range .Equipment }}
- {{ .EquipmentID }}: {{ .Type }} ({{ .Status }})
{{- else }}
- No equipment recorded
{{- end }}

### Resource Requests
{{- range .View.Requests }}
- {{ .ResourceType }}: {{ .QuantityFulfilled }}/{{ .QuantityRequested }} ({{ .Status }}, {{ .Priority }})
{{- else }}
- No open requests
{{- end }}

### Summary
- Equipment Deployed: {{ .View.Summary.EquipmentDeployed }}/{{ .View.Summary.TotalEquipment }}
- Critical Requests Pending: {{ .View.Summary.CriticalRequestsPending }}
- Request Fulfilment: {{ pct .View.Summary.RequestFulfilmentRate }}
- Responding Agencies: {{ .View.Summary.RespondingAgencies }}
{{ template "unavailable" .View.Unavailable }}
{{- end -}}

{{- define "search" -}}
## Search Results for "{{ .Query }}"

Found {{ .View.Summary.TotalResults }} results:
- Persons: {{ len .View.Persons }}
- Locations: {{ len .View.Locations }}
- Cases: {{ len .View.Cases }}
{{- range .View.Persons }}
- Person: {{ .FullName }}
{{- end }}
{{- range .View.Locations }}
- Location: {{ .Name }}
{{- end }}
{{- range .View.Cases }}
- Case: {{ .CaseNumber }} ({{ .IllnessStatus }})
{{- end }}
{{ template "unavailable" .View.Unavailable }}
Ask more specific questions about the forest fire emergency.
{{- end -}}

{{- define "help" -}}
## Forest Fire Emergency Information Available

Ask me about:
- Fire situation overview and containment status
- Evacuation and shelter information
- Fire zones and threatened communities
- Emergency resources and personnel
- Searching for a person, location or case number

Try: "What's the current fire situation?" or "Show me evacuation status"
{{- end -}}
`
