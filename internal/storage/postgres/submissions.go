package postgres

import (
	"github.com/julianstephens/slotsheet/internal/models"
)

func (s *Store) RecordSubmission(entry models.SubmissionLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO submissions (id, batch_id, date, start_time, end_time, kind, job_id, success, message, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.BatchID, entry.Date, entry.StartTime, entry.EndTime, string(entry.Kind),
		entry.JobID, entry.Success, entry.Message, entry.SubmittedAt.UTC(),
	)
	return err
}

func (s *Store) GetSubmissions(date string) ([]models.SubmissionLogEntry, error) {
	query := `SELECT id, batch_id, date, start_time, end_time, kind, job_id, success, message, submitted_at
		FROM submissions`
	var args []interface{}
	if date != "" {
		query += " WHERE date = $1"
		args = append(args, date)
	}
	query += " ORDER BY submitted_at ASC, start_time ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.SubmissionLogEntry
	for rows.Next() {
		var (
			e    models.SubmissionLogEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.BatchID, &e.Date, &e.StartTime, &e.EndTime, &kind,
			&e.JobID, &e.Success, &e.Message, &e.SubmittedAt); err != nil {
			return nil, err
		}
		e.Kind = models.SlotKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
