package schema

// Seeding phases. Phases 1 and 2 (locating the repository and extracting the
// commit list) are owned by the caller; the seeder runs 3 through 8.
const (
	PhaseLocate       = 1
	PhaseExtract      = 2
	PhaseDNA          = 3
	PhaseStyle        = 4
	PhaseAnalyze      = 5
	PhaseExemplars    = 6
	PhaseContributors = 7
	PhaseMarket       = 8
)

// PhaseNames maps each seeding phase to its display name.
var PhaseNames = map[int]string{
	PhaseLocate:       "Locating repository",
	PhaseExtract:      "Extracting commits",
	PhaseDNA:          "Analyzing codebase DNA",
	PhaseStyle:        "Detecting commit style",
	PhaseAnalyze:      "Analyzing commits",
	PhaseExemplars:    "Extracting exemplars",
	PhaseContributors: "Profiling contributors",
	PhaseMarket:       "Market comparison",
}

// SeedingProgress is one progress event emitted by the seeding pipeline.
type SeedingProgress struct {
	Phase     int        `json:"phase"` // 1-8
	PhaseName string     `json:"phase_name"`
	Status    SeedStatus `json:"status"`
	Message   string     `json:"message"`
	Detail    *string    `json:"detail"`
	Percent   *float64   `json:"progress_percent"`
}

// SeedingResult is the summary returned once seeding completes.
type SeedingResult struct {
	RepoID            int64    `json:"repo_id"`
	RepoName          string   `json:"repo_name"`
	CommitCount       int      `json:"commit_count"`
	ScoredCount       int      `json:"scored_count"`
	AverageScore      *float64 `json:"average_score"`
	ExemplarCount     int      `json:"exemplar_count"`
	CollaboratorCount int      `json:"collaborator_count"`
	AntipatternCount  int      `json:"antipattern_count"`
	HasRoasts         bool     `json:"has_roasts"`
	HasMarket         bool     `json:"has_market"`
}
