package sqlite

import (
	"time"

	"github.com/julianstephens/slotsheet/internal/models"
)

// timestampLayout is fixed width so that text ordering matches time ordering
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func (s *Store) RecordSubmission(entry models.SubmissionLogEntry) error {
	success := 0
	if entry.Success {
		success = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO submissions (id, batch_id, date, start_time, end_time, kind, job_id, success, message, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.BatchID, entry.Date, entry.StartTime, entry.EndTime, string(entry.Kind),
		entry.JobID, success, entry.Message, entry.SubmittedAt.UTC().Format(timestampLayout),
	)
	return err
}

// GetSubmissions returns the journal for date, or every entry when date is
// empty, in the order the attempts were made.
func (s *Store) GetSubmissions(date string) ([]models.SubmissionLogEntry, error) {
	query := `SELECT id, batch_id, date, start_time, end_time, kind, job_id, success, message, submitted_at
		FROM submissions`
	var args []interface{}
	if date != "" {
		query += " WHERE date = ?"
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
			e           models.SubmissionLogEntry
			kind        string
			success     int
			submittedAt string
		)
		if err := rows.Scan(&e.ID, &e.BatchID, &e.Date, &e.StartTime, &e.EndTime, &kind,
			&e.JobID, &success, &e.Message, &submittedAt); err != nil {
			return nil, err
		}
		e.Kind = models.SlotKind(kind)
		e.Success = success != 0
		if t, err := time.Parse(timestampLayout, submittedAt); err == nil {
			e.SubmittedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
