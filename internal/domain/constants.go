package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultProbeTimeout bounds each backend connectivity check
	DefaultProbeTimeout = 10 * time.Second
	// DefaultRequestTimeout bounds one backend call made on behalf of a question
	DefaultRequestTimeout = 60 * time.Second
	// DefaultShutdownTimeout is how long the HTTP server drains on exit
	DefaultShutdownTimeout = 10 * time.Second
)

// Row limits used by the view builder
const (
	SearchLimit          = 10
	RecentPersonsLimit   = 20
	EvacueeListLimit     = 10
	NamedLocationsLimit  = 25
	CommunityListLimit   = 8
	EquipmentLimit       = 15
	OrganisationLimit    = 20
	DefaultMaxToolTurns  = 3
	DefaultAPIKeyEnv     = "GEMINI_API_KEY"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)

// EdenTables are the Sahana Eden tables the views read.
var EdenTables = []string{"disease_case", "pr_person", "gis_location", "asset_asset", "org_organisation"}
