package schema

import "time"

// MemoryStatus represents the status of the memory store.
type MemoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	RepositoryCount   int              `json:"repository_count"`
	CollaboratorCount int              `json:"collaborator_count"`
	ExemplarCount     int              `json:"exemplar_count"`
	AntipatternCount  int              `json:"antipattern_count"`
	LastSeededAt      time.Time        `json:"last_seeded_at"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// CollaboratorInsight is a display-oriented view over a collaborator row.
type CollaboratorInsight struct {
	Name         string   `json:"name"`
	CommitCount  int      `json:"commit_count"`
	AvgScore     *float64 `json:"avg_score"`
	PrimaryAreas []string `json:"primary_areas"`
	AreaSummary  *string  `json:"area_summary"`
	Trend        *string  `json:"trend"`
	RoastLines   []string `json:"roast_lines"`
}
