package storage

import (
	"strings"

	"github.com/julianstephens/slotsheet/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Job catalog cache
	SaveCatalog(models.Catalog) error
	GetCatalog() (models.Catalog, error)

	// Submission journal
	RecordSubmission(models.SubmissionLogEntry) error
	GetSubmissions(date string) ([]models.SubmissionLogEntry, error)

	// Utils
	GetConfigPath() string
}

// IsPostgres reports whether config is a PostgreSQL connection URL rather than a file path
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}
