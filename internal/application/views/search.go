package views

import (
	"context"
	"strings"

	"github.com/doeshing/firewatch/internal/domain"
)

const (
	searchPersonsQuery = `SELECT first_name, last_name, gender, pe_label
FROM pr_person
WHERE first_name LIKE ? ESCAPE '\' OR last_name LIKE ? ESCAPE '\' OR pe_label LIKE ? ESCAPE '\'
ORDER BY last_name, first_name, id
LIMIT ?`

	searchLocationsQuery = `SELECT name, lat, lon, population
FROM gis_location
WHERE name LIKE ? ESCAPE '\'
ORDER BY name, id
LIMIT ?`

	searchCasesQuery = `SELECT case_number, diagnosis_date, illness_status
FROM disease_case
WHERE case_number LIKE ? ESCAPE '\'
ORDER BY case_number, id
LIMIT ?`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches term as a case-insensitive substring across persons,
// locations and case numbers. A blank term matches nothing.
func (b *Builder) Search(ctx context.Context, term string) domain.SearchResult {
	term = strings.TrimSpace(term)
	result := domain.SearchResult{
		Persons:   []domain.PersonMatch{},
		Locations: []domain.LocationMatch{},
		Cases:     []domain.CaseMatch{},
		Summary:   domain.SearchSummary{SearchTerm: term},
	}
	if term == "" {
		return result
	}

	r := b.reader(domain.ViewSearch)
	pattern := "%" + likeEscaper.Replace(term) + "%"

	for _, row := range r.rows(ctx, "persons", searchPersonsQuery, pattern, pattern, pattern, domain.SearchLimit) {
		result.Persons = append(result.Persons, domain.PersonMatch{
			FirstName: row.String("first_name"),
			LastName:  row.String("last_name"),
			Gender:    genderLabel(row),
			Label:     row.String("pe_label"),
		})
	}
	for _, row := range r.rows(ctx, "locations", searchLocationsQuery, pattern, domain.SearchLimit) {
		result.Locations = append(result.Locations, domain.LocationMatch{
			Name:       row.String("name"),
			Lat:        row.Float("lat"),
			Lon:        row.Float("lon"),
			Population: row.Int("population"),
		})
	}
	for _, row := range r.rows(ctx, "cases", searchCasesQuery, pattern, domain.SearchLimit) {
		result.Cases = append(result.Cases, domain.CaseMatch{
			CaseNumber:    row.String("case_number"),
			DiagnosisDate: row.String("diagnosis_date"),
			IllnessStatus: row.String("illness_status"),
		})
	}

	result.Summary.TotalResults = len(result.Persons) + len(result.Locations) + len(result.Cases)
	result.Unavailable = r.unavailable
	return result
}
