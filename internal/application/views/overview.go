package views

import (
	"context"

	"github.com/doeshing/firewatch/internal/domain"
)

const (
	caseStatsQuery = `SELECT
	COUNT(*) AS total_affected,
	SUM(CASE WHEN hospitalized = 'T' THEN 1 ELSE 0 END) AS severe_injuries,
	SUM(CASE WHEN illness_status = 'Recovered' THEN 1 ELSE 0 END) AS evacuated_safe,
	SUM(CASE WHEN illness_status = 'Deceased' THEN 1 ELSE 0 END) AS casualties,
	SUM(CASE WHEN illness_status = 'Active' THEN 1 ELSE 0 END) AS missing_persons
FROM disease_case`

	personStatsQuery = `SELECT
	COUNT(*) AS total_persons,
	COUNT(CASE WHEN pe_label IS NOT NULL THEN 1 END) AS labelled_persons
FROM pr_person`

	locationStatsQuery = `SELECT
	COUNT(*) AS total_locations,
	COUNT(CASE WHEN population > 0 THEN 1 END) AS populated_areas,
	SUM(CASE WHEN population > 0 THEN population ELSE 0 END) AS total_population
FROM gis_location
WHERE name IS NOT NULL`

	assetCountQuery = `SELECT COUNT(*) AS units FROM asset_asset`
)

// Overview builds the incident-wide snapshot.
func (b *Builder) Overview(ctx context.Context) domain.Overview {
	r := b.reader(domain.ViewOverview)
	profile := b.Config.Incident

	cases := r.single(ctx, "casualties", caseStatsQuery)
	persons := r.single(ctx, "persons", personStatsQuery)
	locations := r.single(ctx, "locations", locationStatsQuery)
	assets := r.single(ctx, "equipment", assetCountQuery)

	population := locations.Int("total_population")
	estimated := false
	if population == 0 {
		population = profile.PopulationAtRiskEstimate
		estimated = true
	}

	return domain.Overview{
		IncidentName: profile.Name,
		AlertLevel:   profile.AlertLevel,
		FireStatus:   profile.FireStatus,
		LastUpdated:  b.now(),
		Impact: domain.CasualtyImpact{
			TotalAffected:   cases.Int("total_affected"),
			SevereInjuries:  cases.Int("severe_injuries"),
			EvacuatedSafely: cases.Int("evacuated_safe"),
			Casualties:      cases.Int("casualties"),
			MissingPersons:  cases.Int("missing_persons"),
		},
		Population: domain.PopulationStatus{
			TotalRegisteredPersons: persons.Int("total_persons"),
			LabelledPersons:        persons.Int("labelled_persons"),
			AffectedLocations:      locations.Int("total_locations"),
			PopulatedAreas:         locations.Int("populated_areas"),
			PopulationAtRisk:       population,
			PopulationEstimated:    estimated,
			EvacuationZones:        profile.EvacuationZones,
			ShelterCapacity:        b.Config.TotalShelterCapacity(),
		},
		Fire: domain.FireStatistics{
			AcresBurned:          profile.AcresBurned,
			ContainmentPercent:   profile.ContainmentPercent,
			StructuresThreatened: profile.StructuresThreatened,
			StructuresDestroyed:  profile.StructuresDestroyed,
			FirefightersDeployed: profile.FirefightersDeployed,
			AircraftDeployed:     profile.AircraftDeployed,
			EquipmentUnits:       assets.Int("units"),
		},
		Unavailable: r.unavailable,
	}
}
