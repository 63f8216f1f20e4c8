package views

import (
	"context"

	"github.com/doeshing/firewatch/internal/domain"
)

const (
	equipmentQuery = `SELECT id, number, type, category, status
FROM asset_asset
ORDER BY type, id
LIMIT ?`

	organisationsQuery = `SELECT name, acronym, website
FROM org_organisation
WHERE name IS NOT NULL
ORDER BY name
LIMIT ?`
)

var (
	equipmentTypes    = []string{"Fire Engine", "Water Tender", "Bulldozer", "Helicopter", "Ambulance"}
	equipmentStatuses = []string{"Deployed", "Available", "Maintenance", "En Route"}
)

// Resources builds equipment, personnel, request and agency status.
func (b *Builder) Resources(ctx context.Context) domain.ResourceStatus {
	r := b.reader(domain.ViewResources)

	assets := r.rows(ctx, "equipment", equipmentQuery, domain.EquipmentLimit)
	equipment := make([]domain.Equipment, 0, len(assets))
	deployed := 0
	for i, asset := range assets {
		kind := equipmentTypes[i%len(equipmentTypes)]
		status := equipmentStatuses[i%len(equipmentStatuses)]
		if status == "Deployed" {
			deployed++
		}
		location := "Active - Fire Zone"
		if i%2 == 0 {
			location = "Fire Station 12"
		}
		crew := 2
		if kind == "Fire Engine" {
			crew = 4
		}
		equipment = append(equipment, domain.Equipment{
			EquipmentID: asset.StringOr("number", formatID("UNIT", 3, asset.Int("id"))),
			Type:        kind,
			Status:      status,
			Location:    location,
			CrewSize:    crew,
		})
	}

	orgRows := r.rows(ctx, "organisations", organisationsQuery, domain.OrganisationLimit)
	organisations := make([]domain.Organisation, 0, len(orgRows))
	for _, row := range orgRows {
		organisations = append(organisations, domain.Organisation{
			Name:    row.String("name"),
			Acronym: row.String("acronym"),
			Website: row.String("website"),
		})
	}

	requests := append([]domain.ResourceRequest(nil), b.Config.ResourceRequests...)
	if requests == nil {
		requests = []domain.ResourceRequest{}
	}
	var requested, fulfilled int64
	critical := 0
	for _, req := range requests {
		requested += req.QuantityRequested
		fulfilled += req.QuantityFulfilled
		if !req.Fulfilled() && req.Priority == "CRITICAL" {
			critical++
		}
	}

	personnel := b.Config.Personnel
	return domain.ResourceStatus{
		Equipment:     equipment,
		Personnel:     personnel,
		Requests:      requests,
		Organisations: organisations,
		Summary: domain.ResourceSummary{
			TotalEquipment:          len(equipment),
			EquipmentDeployed:       deployed,
			TotalPersonnel:          personnel.Firefighters + personnel.SupportStaff,
			CriticalRequestsPending: critical,
			RequestFulfilmentRate:   domain.Rate(float64(fulfilled), float64(requested)),
			RespondingAgencies:      len(organisations),
		},
		Unavailable: r.unavailable,
	}
}
