package views

import (
	"context"

	"github.com/doeshing/firewatch/internal/domain"
)

const (
	recentPersonsQuery = `SELECT id, first_name, last_name, gender, pe_label, created_on
FROM pr_person
ORDER BY created_on DESC, id DESC
LIMIT ?`

	caseImpactsQuery = `SELECT
	dc.id,
	dc.case_number,
	dc.diagnosis_date,
	dc.hospitalized,
	dc.illness_status,
	p.first_name,
	p.last_name,
	gl.name AS location_name
FROM disease_case dc
LEFT JOIN pr_person p ON dc.person_id = p.id
LEFT JOIN gis_location gl ON dc.location_id = gl.id
ORDER BY dc.diagnosis_date DESC, dc.id`
)

// Evacuees builds evacuee, incident impact and shelter status.
func (b *Builder) Evacuees(ctx context.Context) domain.EvacueeStatus {
	r := b.reader(domain.ViewEvacuees)

	persons := r.rows(ctx, "evacuees", recentPersonsQuery, domain.RecentPersonsLimit)
	cases := r.rows(ctx, "incident_impacts", caseImpactsQuery)

	evacuees := make([]domain.Evacuee, 0, domain.EvacueeListLimit)
	for i, person := range persons {
		if i == domain.EvacueeListLimit {
			break
		}
		evacuees = append(evacuees, domain.Evacuee{
			EvacueeID:         formatID("FF", 4, person.Int("id")),
			Name:              fullName(person),
			Gender:            genderLabel(person),
			EvacuationDate:    person.StringOr("created_on", "unknown"),
			Status:            "Safely evacuated",
			ShelterAssignment: b.Config.Incident.DefaultShelter,
			SpecialNeeds:      "None reported",
		})
	}

	impacts := make([]domain.IncidentImpact, 0, len(cases))
	var hospitalized, recovered int
	for _, c := range cases {
		severe := c.String("hospitalized") == "T"
		if severe {
			hospitalized++
		}
		status := c.StringOr("illness_status", "Unknown")
		if status == "Recovered" {
			recovered++
		}
		name := fullName(c)
		if name == "" {
			name = "Unknown"
		}
		severity := "Minor"
		if severe {
			severity = "Severe"
		}
		impacts = append(impacts, domain.IncidentImpact{
			CaseID:            c.StringOr("case_number", formatID("FIRE", 3, c.Int("id"))),
			PersonName:        name,
			IncidentDate:      c.StringOr("diagnosis_date", "unknown"),
			InjurySeverity:    severity,
			CurrentStatus:     status,
			Location:          c.StringOr("location_name", "Unassigned"),
			TreatmentRequired: severe,
		})
	}

	shelters, capacity, occupied := b.shelters()

	return domain.EvacueeStatus{
		Evacuees: evacuees,
		Impacts:  impacts,
		Shelters: shelters,
		Statistics: domain.EvacueeStatistics{
			TotalEvacuees:         len(evacuees),
			TotalIncidents:        len(impacts),
			Hospitalized:          hospitalized,
			Recovered:             recovered,
			EvacuationSuccessRate: domain.Rate(float64(recovered), float64(len(impacts))),
			HospitalizationRate:   domain.Rate(float64(hospitalized), float64(len(impacts))),
			ShelterCapacity:       capacity,
			ShelterOccupied:       occupied,
			ShelterOccupancyRate:  domain.Rate(float64(occupied), float64(capacity)),
		},
		Unavailable: r.unavailable,
	}
}

func (b *Builder) shelters() ([]domain.ShelterStatus, int64, int64) {
	out := make([]domain.ShelterStatus, 0, len(b.Config.Shelters))
	var capacity, occupied int64
	for _, s := range b.Config.Shelters {
		available := s.Capacity - s.Occupied
		if available < 0 {
			available = 0
		}
		out = append(out, domain.ShelterStatus{
			Name:          s.Name,
			Capacity:      s.Capacity,
			Occupied:      s.Occupied,
			Available:     available,
			OccupancyRate: domain.Rate(float64(s.Occupied), float64(s.Capacity)),
			Services:      s.Services,
		})
		capacity += s.Capacity
		occupied += s.Occupied
	}
	return out, capacity, occupied
}
