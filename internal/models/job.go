package models

// JobDefinition is a unit of work a slot can be assigned to
type JobDefinition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Catalog is the ordered set of jobs available to the current user
type Catalog []JobDefinition

// Find returns the job with the given id
func (c Catalog) Find(id int64) (JobDefinition, bool) {
	for _, job := range c {
		if job.ID == id {
			return job, true
		}
	}
	return JobDefinition{}, false
}

// TruncateName shortens a catalog name to at most max runes, replacing the
// tail with an ellipsis when it had to be cut.
func TruncateName(name string, max int) string {
	runes := []rune(name)
	if max <= 3 || len(runes) <= max {
		return name
	}
	return string(runes[:max-3]) + "..."
}
