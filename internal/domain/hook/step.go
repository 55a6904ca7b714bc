package hook

// StepKind identifies which of the seven step runner strategies a Step
// carries.
type StepKind string

const (
	StepSparql   StepKind = "SparqlStep"
	StepTemplate StepKind = "TemplateStep"
	StepFile     StepKind = "FileStep"
	StepCli      StepKind = "CliStep"
	StepHTTP     StepKind = "HttpStep"
	StepOutput   StepKind = "OutputStep"
	StepRepo     StepKind = "RepoStep"
)

// RepoOperation enumerates RepoStep's read-only git inspections.
type RepoOperation string

const (
	RepoOpHeadCommit RepoOperation = "headCommit"
	RepoOpStatus     RepoOperation = "status"
)

// FileOperation enumerates FileStep's filesystem mutations.
type FileOperation string

const (
	FileOpCreate FileOperation = "create"
	FileOpWrite  FileOperation = "write"
	FileOpAppend FileOperation = "append"
	FileOpDelete FileOperation = "delete"
)

// OutputFormat enumerates OutputStep's render targets. FormatAuto is
// resolved to a concrete format from the output path's extension
// before the step runs.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatLatex    OutputFormat = "latex"
	FormatXLSX     OutputFormat = "xlsx"
	FormatPPTX     OutputFormat = "pptx"
	FormatDOCX     OutputFormat = "docx"
	FormatAuto     OutputFormat = "auto"
)

// SparqlStep runs a SELECT query and yields a bindings sequence.
type SparqlStep struct {
	Query string
}

// TemplateStep renders Body (or the file at BodyPath) against the
// execution context. If OutputPath is set the rendered text is
// written there.
type TemplateStep struct {
	Body       string
	BodyPath   string
	OutputPath string
}

// FileStep performs a single filesystem mutation.
type FileStep struct {
	Path      string
	Operation FileOperation
	Content   string
}

// CliStep spawns Command via the host's standard shell. TimeoutMs of
// zero means the engine-wide default applies.
type CliStep struct {
	Command   string
	TimeoutMs int
}

// HttpStep issues a single HTTP request.
type HttpStep struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// OutputStep renders TemplatePath (or Body) and writes the result to
// OutputPath in Format.
type OutputStep struct {
	TemplatePath string
	Body         string
	OutputPath   string
	Format       OutputFormat
}

// RepoStep performs a read-only inspection of a local git repository,
// for repository-bootstrap pipelines (e.g. stamping the current commit
// into the context before a template or output step runs).
type RepoStep struct {
	Path      string
	Operation RepoOperation
}

// Step is the tagged-union wrapper around the seven step kinds. Exactly
// one of the pointer fields matching Kind is non-nil.
type Step struct {
	ID            StepID
	DependsOn     []StepID
	OutputMapping map[string]string

	Kind     StepKind
	Sparql   *SparqlStep
	Template *TemplateStep
	File     *FileStep
	Cli      *CliStep
	HTTP     *HttpStep
	Output   *OutputStep
	Repo     *RepoStep
}
