package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the run-history database
	DefaultDatabasePath = "./weread-exporter.db"

	// DefaultOutputDir is where export artifacts are written
	DefaultOutputDir = "./outputs"
)
