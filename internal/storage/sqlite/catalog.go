package sqlite

import (
	"time"

	"github.com/julianstephens/slotsheet/internal/models"
)

// SaveCatalog replaces the cached job catalog, keeping its order
func (s *Store) SaveCatalog(catalog models.Catalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM job_catalog"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO job_catalog (id, name, position, updated_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, job := range catalog {
		if _, err := stmt.Exec(job.ID, job.Name, i, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetCatalog returns the cached job catalog, empty if nothing was cached
func (s *Store) GetCatalog() (models.Catalog, error) {
	rows, err := s.db.Query("SELECT id, name FROM job_catalog ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := models.Catalog{}
	for rows.Next() {
		var job models.JobDefinition
		if err := rows.Scan(&job.ID, &job.Name); err != nil {
			return nil, err
		}
		catalog = append(catalog, job)
	}
	return catalog, rows.Err()
}
