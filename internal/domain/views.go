package domain

import "time"

// ViewKind names one member of the domain view union.
type ViewKind string

const (
	ViewOverview  ViewKind = "overview"
	ViewEvacuees  ViewKind = "evacuees"
	ViewZones     ViewKind = "zones"
	ViewResources ViewKind = "resources"
	ViewSearch    ViewKind = "search"
)

// ParseViewKind validates a view name.
func ParseViewKind(raw string) (ViewKind, bool) {
	switch ViewKind(raw) {
	case ViewOverview, ViewEvacuees, ViewZones, ViewResources, ViewSearch:
		return ViewKind(raw), true
	}
	return "", false
}

// Overview is the incident-wide situation snapshot.
type Overview struct {
	IncidentName string           `json:"incident_name"`
	AlertLevel   string           `json:"alert_level"`
	FireStatus   string           `json:"fire_status"`
	LastUpdated  time.Time        `json:"last_updated"`
	Impact       CasualtyImpact   `json:"casualties_and_impact"`
	Population   PopulationStatus `json:"population_status"`
	Fire         FireStatistics   `json:"fire_statistics"`
	Unavailable  []string         `json:"unavailable,omitempty"`
}

// CasualtyImpact is derived from disease_case rows.
type CasualtyImpact struct {
	TotalAffected   int64 `json:"total_affected_persons"`
	SevereInjuries  int64 `json:"severe_injuries"`
	EvacuatedSafely int64 `json:"evacuated_safely"`
	Casualties      int64 `json:"casualties"`
	MissingPersons  int64 `json:"missing_persons"`
}

type PopulationStatus struct {
	TotalRegisteredPersons int64 `json:"total_registered_persons"`
	LabelledPersons        int64 `json:"labelled_persons"`
	AffectedLocations      int64 `json:"affected_locations"`
	PopulatedAreas         int64 `json:"populated_areas"`
	PopulationAtRisk       int64 `json:"population_at_risk"`
	PopulationEstimated    bool  `json:"population_estimated"`
	EvacuationZones        int64 `json:"evacuation_zones"`
	ShelterCapacity        int64 `json:"shelter_capacity"`
}

type FireStatistics struct {
	AcresBurned          int64 `json:"acres_burned"`
	ContainmentPercent   int64 `json:"containment_percentage"`
	StructuresThreatened int64 `json:"structures_threatened"`
	StructuresDestroyed  int64 `json:"structures_destroyed"`
	FirefightersDeployed int64 `json:"firefighters_deployed"`
	AircraftDeployed     int64 `json:"aircraft_deployed"`
	EquipmentUnits       int64 `json:"equipment_units"`
}

// EvacueeStatus covers evacuees, incident impacts and shelters.
type EvacueeStatus struct {
	Evacuees    []Evacuee         `json:"evacuees"`
	Impacts     []IncidentImpact  `json:"incident_impacts"`
	Shelters    []ShelterStatus   `json:"shelters"`
	Statistics  EvacueeStatistics `json:"statistics"`
	Unavailable []string          `json:"unavailable,omitempty"`
}

type Evacuee struct {
	EvacueeID         string `json:"evacuee_id"`
	Name              string `json:"name"`
	Gender            string `json:"gender"`
	EvacuationDate    string `json:"evacuation_date"`
	Status            string `json:"status"`
	ShelterAssignment string `json:"shelter_assignment"`
	SpecialNeeds      string `json:"special_needs"`
}

type IncidentImpact struct {
	CaseID            string `json:"case_id"`
	PersonName        string `json:"person_name"`
	IncidentDate      string `json:"incident_date"`
	InjurySeverity    string `json:"injury_severity"`
	CurrentStatus     string `json:"current_status"`
	Location          string `json:"location"`
	TreatmentRequired bool   `json:"treatment_required"`
}

type ShelterStatus struct {
	Name          string  `json:"name"`
	Capacity      int64   `json:"capacity"`
	Occupied      int64   `json:"occupied"`
	Available     int64   `json:"available"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Services      string  `json:"services,omitempty"`
}

type EvacueeStatistics struct {
	TotalEvacuees         int     `json:"total_evacuees"`
	TotalIncidents        int     `json:"total_incidents"`
	Hospitalized          int     `json:"hospitalized"`
	Recovered             int     `json:"recovered"`
	EvacuationSuccessRate float64 `json:"evacuation_success_rate"`
	HospitalizationRate   float64 `json:"hospitalization_rate"`
	ShelterCapacity       int64   `json:"shelter_capacity"`
	ShelterOccupied       int64   `json:"shelter_occupied"`
	ShelterOccupancyRate  float64 `json:"shelter_occupancy_rate"`
}

// ZoneStatus covers fire zones, affected communities and location categories.
type ZoneStatus struct {
	FireZones   []FireZone         `json:"fire_zones"`
	Communities []Community        `json:"affected_communities"`
	Categories  LocationCategories `json:"location_categories"`
	Statistics  ZoneStatistics     `json:"zone_statistics"`
	Unavailable []string           `json:"unavailable,omitempty"`
}

// FireZone is configured rather than stored.
type FireZone struct {
	ZoneID           string `json:"zone_id" yaml:"id"`
	Name             string `json:"zone_name" yaml:"name"`
	Type             string `json:"zone_type" yaml:"type"`
	AreaAcres        int64  `json:"area_acres" yaml:"area_acres"`
	ThreatLevel      string `json:"threat_level" yaml:"threat_level"`
	EvacuationStatus string `json:"evacuation_status" yaml:"evacuation_status"`
	Containment      string `json:"containment" yaml:"containment"`
}

type Community struct {
	Name             string  `json:"community_name"`
	Population       int64   `json:"population"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	ThreatLevel      string  `json:"threat_level"`
	EvacuationStatus string  `json:"evacuation_status"`
	DistanceMiles    float64 `json:"distance_from_fire_miles"`
	RoadAccess       string  `json:"road_access"`
}

type LocationCategories struct {
	Communities  []string `json:"communities"`
	Shelters     []string `json:"shelters"`
	FireStations []string `json:"fire_stations"`
	Other        int      `json:"other_locations"`
}

type ZoneStatistics struct {
	TotalFireZones          int   `json:"total_fire_zones"`
	TotalCommunities        int   `json:"total_affected_communities"`
	TotalAreaThreatened     int64 `json:"total_area_threatened"`
	TotalPopulationAtRisk   int64 `json:"total_population_at_risk"`
	NamedLocationsConsulted int   `json:"named_locations_consulted"`
}

// ResourceStatus covers equipment, personnel, requests and agencies.
type ResourceStatus struct {
	Equipment     []Equipment       `json:"fire_equipment"`
	Personnel     PersonnelStats    `json:"personnel_statistics"`
	Requests      []ResourceRequest `json:"resource_requests"`
	Organisations []Organisation    `json:"organisations"`
	Summary       ResourceSummary   `json:"resource_summary"`
	Unavailable   []string          `json:"unavailable,omitempty"`
}

type Equipment struct {
	EquipmentID string `json:"equipment_id"`
	Type        string `json:"equipment_type"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	CrewSize    int    `json:"crew_size"`
}

type PersonnelStats struct {
	Firefighters       int64 `json:"total_firefighters" yaml:"firefighters"`
	SupportStaff       int64 `json:"total_support_staff" yaml:"support_staff"`
	Volunteers         int64 `json:"total_volunteers" yaml:"volunteers"`
	IncidentCommanders int64 `json:"incident_commanders" yaml:"incident_commanders"`
	AgenciesInvolved   int64 `json:"agencies_involved" yaml:"agencies_involved"`
	MutualAid          int64 `json:"mutual_aid_resources" yaml:"mutual_aid_resources"`
}

type ResourceRequest struct {
	ResourceType      string `json:"resource_type" yaml:"resource_type"`
	QuantityRequested int64  `json:"quantity_requested" yaml:"requested"`
	QuantityFulfilled int64  `json:"quantity_fulfilled" yaml:"fulfilled"`
	Priority          string `json:"priority" yaml:"priority"`
	ETA               string `json:"eta" yaml:"eta"`
}

// Fulfilled reports whether every requested unit has arrived.
func (r ResourceRequest) Fulfilled() bool {
	return r.QuantityRequested > 0 && r.QuantityFulfilled >= r.QuantityRequested
}

// Status describes request progress.
func (r ResourceRequest) Status() string {
	switch {
	case r.Fulfilled():
		return "Fulfilled"
	case r.QuantityFulfilled > 0:
		return "Partially Fulfilled"
	default:
		return "Pending"
	}
}

type Organisation struct {
	Name    string `json:"name"`
	Acronym string `json:"acronym,omitempty"`
	Website string `json:"website,omitempty"`
}

type ResourceSummary struct {
	TotalEquipment          int     `json:"total_equipment"`
	EquipmentDeployed       int     `json:"total_equipment_deployed"`
	TotalPersonnel          int64   `json:"total_personnel"`
	CriticalRequestsPending int     `json:"critical_requests_pending"`
	RequestFulfilmentRate   float64 `json:"request_fulfilment_rate"`
	RespondingAgencies      int     `json:"responding_agencies"`
}

// SearchResult holds three independent row lists for one term.
type SearchResult struct {
	Persons     []PersonMatch   `json:"persons_found"`
	Locations   []LocationMatch `json:"locations_found"`
	Cases       []CaseMatch     `json:"cases_found"`
	Summary     SearchSummary   `json:"summary"`
	Unavailable []string        `json:"unavailable,omitempty"`
}

type PersonMatch struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Label     string `json:"pe_label"`
}

// FullName joins first and last name.
func (p PersonMatch) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

type LocationMatch struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Population int64   `json:"population"`
}

type CaseMatch struct {
	CaseNumber    string `json:"case_number"`
	DiagnosisDate string `json:"diagnosis_date"`
	IllnessStatus string `json:"illness_status"`
}

type SearchSummary struct {
	TotalResults int    `json:"total_results"`
	SearchTerm   string `json:"search_term"`
}
