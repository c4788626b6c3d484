package schema

import "time"

// Repository represents a row from the repositories table.
type Repository struct {
	ID              int64
	URL             *string // unique when set
	Name            string  // unique across the table
	SeededAt        time.Time
	PrimaryLanguage string
	Languages       []LanguageBreakdown
	Frameworks      []string
	ProjectType     ProjectType
	StylePattern    StylePattern
	UsesScopes      bool
	CommonScopes    []string
	TicketPattern   *string
	ComparisonRepos []string
	IndustryPct     *float64
}

// RepositoryCreate is the payload for inserting a repository.
type RepositoryCreate struct {
	URL   *string
	Name  string
	DNA   CodebaseDNA
	Style CommitStyle
}

// Collaborator represents a row from the collaborators table.
// Name is the sole identity key within a repository.
type Collaborator struct {
	ID           int64
	RepoID       int64
	Name         string
	Email        *string
	CommitCount  int
	AvgScore     *float64 // nil when no commits scored successfully
	PrimaryAreas []string
	AreaSummary  *string // LLM one-liner, nil on oracle failure
	RoastLines   []string
	Trend        *ScoreTrend
}

// CollaboratorCreate is the payload for inserting a collaborator.
type CollaboratorCreate struct {
	RepoID       int64
	Name         string
	Email        *string
	CommitCount  int
	AvgScore     *float64
	PrimaryAreas []string
	AreaSummary  *string
	RoastLines   []string
	Trend        *ScoreTrend
}

// Exemplar represents a row from the exemplars table. A high-scoring commit
// kept for future few-shot prompting.
type Exemplar struct {
	ID             int64
	RepoID         int64
	CollaboratorID *int64 // nulled when the collaborator row is deleted
	CommitHash     string // unique per repository
	Message        string
	Score          float64 // constrained to [8,10]
	CommitType     *string
	Scope          *string
	Embedding      []float32 // nil when no embedding was stored
	CreatedAt      time.Time
}

// ExemplarCreate is the payload for inserting an exemplar.
type ExemplarCreate struct {
	RepoID         int64
	CollaboratorID *int64
	CommitHash     string
	Message        string
	Score          float64
	CommitType     *string
	Scope          *string
	Embedding      []float32
}

// Antipattern represents a row from the antipatterns table.
type Antipattern struct {
	ID             int64
	RepoID         int64
	CollaboratorID *int64
	PatternType    AntipatternType
	ExampleMessage string
	Frequency      int
	CreatedAt      time.Time
}

// AntipatternCreate is the payload for inserting an antipattern.
type AntipatternCreate struct {
	RepoID         int64
	CollaboratorID *int64
	PatternType    AntipatternType
	ExampleMessage string
	Frequency      int
}

// SimilarExemplar pairs an exemplar with its cosine similarity to a query.
type SimilarExemplar struct {
	Exemplar   Exemplar
	Similarity float64
}
