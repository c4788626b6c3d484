package schema

// Custom string types for type safety.
type (
	// StylePattern represents the dominant commit-message convention of a repository.
	StylePattern string

	// ProjectType represents the kind of project a codebase implements.
	ProjectType string

	// AntipatternType represents a named recurring bad commit-message habit.
	AntipatternType string

	// ScoreTrend represents the direction of an author's score history.
	ScoreTrend string

	// SeedStatus represents the status of a seeding progress event.
	SeedStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for memory storage.
	DatabaseBackend string
)

// All style patterns supported.
const (
	ConventionalStyle StylePattern = "conventional"
	EmojiStyle        StylePattern = "emoji"
	TicketStyle       StylePattern = "ticket"
	FreeformStyle     StylePattern = "freeform" // default when no pattern dominates
)

// All project types the classifier may produce.
const (
	CLITool      ProjectType = "cli-tool"
	WebApp       ProjectType = "web-app"
	WebFramework ProjectType = "web-framework"
	Library      ProjectType = "library"
	APIService   ProjectType = "api-service"
	MobileApp    ProjectType = "mobile-app"
	DataPipeline ProjectType = "data-pipeline"
	UnknownType  ProjectType = "unknown" // fallback on any classification failure
)

// All antipattern types supported.
const (
	WipChain  AntipatternType = "wip-chain"
	OneWord   AntipatternType = "one-word"
	Vague     AntipatternType = "vague"
	NoContext AntipatternType = "no-context"
	TooLong   AntipatternType = "too-long"
	CapsAbuse AntipatternType = "caps-abuse"
)

// All score trends supported.
const (
	ImprovingTrend ScoreTrend = "improving"
	DecliningTrend ScoreTrend = "declining"
	StableTrend    ScoreTrend = "stable"
)

// All seeding event statuses supported.
const (
	SeedStarted  SeedStatus = "started"
	SeedProgress SeedStatus = "progress"
	SeedDone     SeedStatus = "done"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All memory backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidStylePatterns lists all valid style patterns.
var ValidStylePatterns = map[StylePattern]struct{}{
	ConventionalStyle: {},
	EmojiStyle:        {},
	TicketStyle:       {},
	FreeformStyle:     {},
}

// ValidProjectTypes lists all valid project types.
var ValidProjectTypes = map[ProjectType]struct{}{
	CLITool:      {},
	WebApp:       {},
	WebFramework: {},
	Library:      {},
	APIService:   {},
	MobileApp:    {},
	DataPipeline: {},
	UnknownType:  {},
}

// ValidAntipatternTypes lists all valid antipattern types.
var ValidAntipatternTypes = map[AntipatternType]struct{}{
	WipChain:  {},
	OneWord:   {},
	Vague:     {},
	NoContext: {},
	TooLong:   {},
	CapsAbuse: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidMemoryBackends lists all valid memory backends.
var ValidMemoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ConventionalTypes lists the commit types recognized by conventional-commit parsing.
var ConventionalTypes = map[string]struct{}{
	"feat":     {},
	"fix":      {},
	"docs":     {},
	"style":    {},
	"refactor": {},
	"test":     {},
	"chore":    {},
	"perf":     {},
	"ci":       {},
	"build":    {},
	"revert":   {},
}
