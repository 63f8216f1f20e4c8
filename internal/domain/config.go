package domain

// Config mirrors ~/.firewatch/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Storage             StorageSettings   `yaml:"storage"`
	AI                  AISettings        `yaml:"ai"`
	Incident            IncidentProfile   `yaml:"incident"`
	Zones               []FireZone        `yaml:"zones"`
	Shelters            []ShelterSettings `yaml:"shelters"`
	Personnel           PersonnelStats    `yaml:"personnel"`
	ResourceRequests    []ResourceRequest `yaml:"resource_requests"`
	Server              ServerSettings    `yaml:"server"`
	Menu                MenuSettings      `yaml:"menu"`
	Logging             LoggingSettings   `yaml:"logging"`
}

// StorageSettings points at the Sahana Eden SQLite file.
type StorageSettings struct {
	Path string `yaml:"path"`
}

// AISettings configures the remote backends and how they are probed.
type AISettings struct {
	APIKey                Credential `yaml:"api_key,omitempty"`
	APIKeyEnv             string     `yaml:"api_key_env"`
	BaseURL               string     `yaml:"base_url"`
	DirectModel           string     `yaml:"direct_model"`
	SDKModel              string     `yaml:"sdk_model"`
	AgentModel            string     `yaml:"agent_model"`
	Backends              []string   `yaml:"backends"`
	ProbeTimeoutSeconds   int        `yaml:"probe_timeout"`
	RequestTimeoutSeconds int        `yaml:"request_timeout"`
	MinRequestIntervalMS  int        `yaml:"min_request_interval_ms"`
	MaxToolTurns          int        `yaml:"max_tool_turns"`
	Preamble              string     `yaml:"preamble"`
}

// IncidentProfile holds the incident figures that are not stored in the database.
type IncidentProfile struct {
	Name                     string `yaml:"name"`
	AlertLevel               string `yaml:"alert_level"`
	FireStatus               string `yaml:"fire_status"`
	AcresBurned              int64  `yaml:"acres_burned"`
	ContainmentPercent       int64  `yaml:"containment_percent"`
	StructuresThreatened     int64  `yaml:"structures_threatened"`
	StructuresDestroyed      int64  `yaml:"structures_destroyed"`
	FirefightersDeployed     int64  `yaml:"firefighters_deployed"`
	AircraftDeployed         int64  `yaml:"aircraft_deployed"`
	PopulationAtRiskEstimate int64  `yaml:"population_at_risk_estimate"`
	EvacuationZones          int64  `yaml:"evacuation_zones"`
	ShelterCapacity          int64  `yaml:"shelter_capacity"`
	DefaultShelter           string `yaml:"default_shelter"`
}

// ShelterSettings describes one emergency shelter.
type ShelterSettings struct {
	Name     string `yaml:"name"`
	Capacity int64  `yaml:"capacity"`
	Occupied int64  `yaml:"occupied"`
	Services string `yaml:"services"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr                   string   `yaml:"addr"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
	ReadTimeoutSeconds     int      `yaml:"read_timeout"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout"`
}

// MenuSettings is the navigation the fire section is assembled into.
type MenuSettings struct {
	Base []MenuItem `yaml:"base"`
	Fire MenuItem   `yaml:"fire"`
}

// MenuItem is one navigation entry.
type MenuItem struct {
	Label    string     `yaml:"label" json:"label"`
	URL      string     `yaml:"url" json:"url"`
	Children []MenuItem `yaml:"children,omitempty" json:"children,omitempty"`
}

// LoggingSettings selects zap level and encoding.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
