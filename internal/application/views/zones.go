package views

import (
	"context"
	"strings"

	"github.com/doeshing/firewatch/internal/domain"
)

const (
	namedLocationsQuery = `SELECT id, name, lat, lon, population
FROM gis_location
WHERE name IS NOT NULL AND name != ''
ORDER BY population DESC, name
LIMIT ?`

	locationNamesQuery = `SELECT name
FROM gis_location
WHERE name IS NOT NULL AND name != ''
ORDER BY name`

	defaultLat = 39.2567
	defaultLon = -120.1234
)

var (
	communityThreatLevels = []string{"EXTREME", "HIGH", "MODERATE", "LOW"}
	communityStatuses     = []string{"Evacuated", "Evacuation Warning", "Monitoring", "Safe"}

	communityWords = []string{"township", "village", "estates", "community"}
	shelterWords   = []string{"shelter", "school", "center", "church"}
)

// Zones builds fire zone and affected community status.
func (b *Builder) Zones(ctx context.Context) domain.ZoneStatus {
	r := b.reader(domain.ViewZones)

	zones := append([]domain.FireZone(nil), b.Config.Zones...)
	if zones == nil {
		zones = []domain.FireZone{}
	}

	locations := r.rows(ctx, "communities", namedLocationsQuery, domain.NamedLocationsLimit)
	communities := make([]domain.Community, 0, domain.CommunityListLimit)
	for i, loc := range locations {
		if i == domain.CommunityListLimit {
			break
		}
		population := loc.Int("population")
		if population == 0 {
			population = int64(2500 - i*200)
		}
		lat, lon := defaultLat, defaultLon
		if loc.Has("lat") && loc.Has("lon") {
			lat, lon = loc.Float("lat"), loc.Float("lon")
		}
		access := "Open"
		if i%3 == 0 {
			access = "Limited"
		}
		communities = append(communities, domain.Community{
			Name:             loc.StringOr("name", "Community"),
			Population:       population,
			Lat:              lat,
			Lon:              lon,
			ThreatLevel:      communityThreatLevels[i%len(communityThreatLevels)],
			EvacuationStatus: communityStatuses[i%len(communityStatuses)],
			DistanceMiles:    2 + float64(i)*0.5,
			RoadAccess:       access,
		})
	}

	categories := categorise(r.rows(ctx, "location_categories", locationNamesQuery))

	var area, atRisk int64
	for _, z := range zones {
		area += z.AreaAcres
	}
	for _, c := range communities {
		atRisk += c.Population
	}

	return domain.ZoneStatus{
		FireZones:   zones,
		Communities: communities,
		Categories:  categories,
		Statistics: domain.ZoneStatistics{
			TotalFireZones:          len(zones),
			TotalCommunities:        len(communities),
			TotalAreaThreatened:     area,
			TotalPopulationAtRisk:   atRisk,
			NamedLocationsConsulted: len(locations),
		},
		Unavailable: r.unavailable,
	}
}

// categorise sorts location names into communities, shelters and fire stations.
// The first matching category wins.
func categorise(rows []domain.Row) domain.LocationCategories {
	cats := domain.LocationCategories{
		Communities:  []string{},
		Shelters:     []string{},
		FireStations: []string{},
	}
	for _, row := range rows {
		name := row.String("name")
		lower := strings.ToLower(name)
		switch {
		case containsAny(lower, communityWords):
			cats.Communities = append(cats.Communities, name)
		case containsAny(lower, shelterWords):
			cats.Shelters = append(cats.Shelters, name)
		case strings.Contains(lower, "fire station"):
			cats.FireStations = append(cats.FireStations, name)
		default:
			cats.Other++
		}
	}
	return cats
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
