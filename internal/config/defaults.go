package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultMasterFile = "data/master_patents.xlsx"
	DefaultStateFile  = "data/pipeline_state.json"

	// DefaultResourceIDFloor is the first ResourceId of an empty dataset;
	// it keeps pipeline-assigned IDs clear of the legacy hand-maintained range.
	DefaultResourceIDFloor = 50000

	DefaultLensBaseURL    = "https://api.lens.org/patent/search"
	DefaultLensMaxResults = 5000
	DefaultLensBatchSize  = 100
	DefaultLensRatePerSec = 1.0
	DefaultLensRetryWait  = 5 * time.Second

	DefaultEPOAuthURL    = "https://ops.epo.org/3.2/auth/accesstoken"
	DefaultEPOSearchURL  = "https://ops.epo.org/3.2/rest-services/published-data/search"
	DefaultEPOBiblioURL  = "https://ops.epo.org/3.2/rest-services/published-data/publication/epodoc"
	DefaultEPOQuery      = "pa=Qatar"
	DefaultEPOMaxResults = 5000
	DefaultEPOBatchSize  = 100
	DefaultEPORatePerSec = 10.0

	DefaultHTTPTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the module default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins. It must run after unmarshalling and before
// Validate, so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ───────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Pipeline ─────────────────────────────────────────────────────────────
	if cfg.Pipeline.MasterFile == "" {
		cfg.Pipeline.MasterFile = DefaultMasterFile
	}
	if cfg.Pipeline.StateFile == "" {
		cfg.Pipeline.StateFile = DefaultStateFile
	}
	if cfg.Pipeline.ResourceIDFloor == 0 {
		cfg.Pipeline.ResourceIDFloor = DefaultResourceIDFloor
	}

	// ── Lens ─────────────────────────────────────────────────────────────────
	if cfg.Lens.BaseURL == "" {
		cfg.Lens.BaseURL = DefaultLensBaseURL
	}
	if cfg.Lens.MaxResults == 0 {
		cfg.Lens.MaxResults = DefaultLensMaxResults
	}
	if cfg.Lens.BatchSize == 0 {
		cfg.Lens.BatchSize = DefaultLensBatchSize
	}
	if cfg.Lens.RatePerSec == 0 {
		cfg.Lens.RatePerSec = DefaultLensRatePerSec
	}
	if cfg.Lens.RetryWait == 0 {
		cfg.Lens.RetryWait = DefaultLensRetryWait
	}
	if cfg.Lens.HTTPTimeout == 0 {
		cfg.Lens.HTTPTimeout = DefaultHTTPTimeout
	}

	// ── EPO ──────────────────────────────────────────────────────────────────
	if cfg.EPO.AuthURL == "" {
		cfg.EPO.AuthURL = DefaultEPOAuthURL
	}
	if cfg.EPO.SearchURL == "" {
		cfg.EPO.SearchURL = DefaultEPOSearchURL
	}
	if cfg.EPO.BiblioURL == "" {
		cfg.EPO.BiblioURL = DefaultEPOBiblioURL
	}
	if cfg.EPO.Query == "" {
		cfg.EPO.Query = DefaultEPOQuery
	}
	if cfg.EPO.MaxResults == 0 {
		cfg.EPO.MaxResults = DefaultEPOMaxResults
	}
	if cfg.EPO.BatchSize == 0 {
		cfg.EPO.BatchSize = DefaultEPOBatchSize
	}
	if cfg.EPO.RatePerSec == 0 {
		cfg.EPO.RatePerSec = DefaultEPORatePerSec
	}
	if cfg.EPO.HTTPTimeout == 0 {
		cfg.EPO.HTTPTimeout = DefaultHTTPTimeout
	}

	// ── Logging ──────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
