// Package pipeline orchestrates the reconciliation run: it owns the
// frequency index, the deferred store, and the output sequence, and runs
// the stages strictly in dependency order. Each stage consumes the fully
// materialized output of its predecessor; nothing is streamed and nothing
// is shared mutably across stages.
package pipeline

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/auw2025/grouping/pkg/codemap"
	"github.com/auw2025/grouping/pkg/constants"
	"github.com/auw2025/grouping/pkg/deferred"
	"github.com/auw2025/grouping/pkg/errors"
	"github.com/auw2025/grouping/pkg/freqindex"
	"github.com/auw2025/grouping/pkg/logging"
	"github.com/auw2025/grouping/pkg/normalize"
	"github.com/auw2025/grouping/pkg/records"
	"github.com/auw2025/grouping/pkg/tabular"
	"github.com/auw2025/grouping/pkg/verify"
)

// Columns names the dataset columns the pipeline consumes. The zero value
// is not usable; DefaultColumns supplies the conventional names.
type Columns struct {
	Grouping    string // workload column carrying the grouping text
	SubCode     string // workload column carrying the raw sub-code
	RefSubCode  string // reference table sub-code column
	RefSubject  string // reference table subject-code column
	Form        string // class-list form column
	Class       string // class-list class letter column
	Identifier  string // class-list student identifier column
	CompoundSub string // class-list compound-subject column for the M2 pass
}

// DefaultColumns returns the conventional column names.
func DefaultColumns() Columns {
	return Columns{
		Grouping:    "grouping",
		SubCode:     "sub_code",
		RefSubCode:  "sub_code",
		RefSubject:  "subject_code",
		Form:        "Form",
		Class:       "Class",
		Identifier:  "TSSSID",
		CompoundSub: "MATH",
	}
}

// m2Subject is the deferred-entry subject marker selecting extended-maths
// candidates; m2Fragment is the substring looked for in the compound
// subject column; m2Code keys the fixed pair in the special tables.
const (
	m2Subject  = "(M2)"
	m2Fragment = "M2"
	m2Code     = "M2"
)

// Diagnostic records why a row was withheld from the output.
type Diagnostic struct {
	Row    int
	Reason string
}

// Result is the outcome of one run: the sorted record sequence, the
// parallel diagnostics, and the summary counters.
type Result struct {
	Records           []records.OutputRecord
	Unprocessed       []Diagnostic
	FirstLevelInvalid int
	DeferredStored    int
	DeferredRecovered int
}

// Processed returns the number of emitted records.
func (r *Result) Processed() int {
	return len(r.Records)
}

// Pipeline wires the resolver, verifier, index, and store for one run.
// A Pipeline is single-use: Run builds its shared structures exactly once.
type Pipeline struct {
	columns  Columns
	tables   *codemap.Tables
	resolver *codemap.Resolver
	verifier *verify.Verifier
	builder  *records.Builder
	index    *freqindex.Index
	store    *deferred.Store
	logger   *zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger threaded through every stage.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithColumns overrides the consumed column names.
func WithColumns(columns Columns) Option {
	return func(p *Pipeline) {
		p.columns = columns
	}
}

// WithBuilder overrides the record builder (academic year, term).
func WithBuilder(builder *records.Builder) Option {
	return func(p *Pipeline) {
		p.builder = builder
	}
}

// New builds a pipeline over the override tables and the reference table.
func New(tables *codemap.Tables, reference *tabular.Dataset, opts ...Option) *Pipeline {
	if tables == nil {
		tables = codemap.DefaultTables()
	}
	p := &Pipeline{
		columns: DefaultColumns(),
		tables:  tables,
		builder: records.NewBuilder(),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = codemap.NewResolver(tables, reference,
		codemap.WithColumns(p.columns.RefSubCode, p.columns.RefSubject),
		codemap.WithLogger(p.logger))
	p.verifier = verify.New(tables, verify.WithLogger(p.logger))
	p.store = deferred.NewStore(deferred.WithLogger(p.logger))
	return p
}

// Run executes the full reconciliation. With a nil or empty class list the
// run is the workload flow alone: every workload grouping resolves to a
// record and the output sorts by grouping text. With a class list the run
// is the roster flow: workload rows feed the frequency index, groupings
// the resolver cannot place are deferred by group prefix, per-student
// records are built from deferred recoveries, substring matches, and the
// final extended-maths pass, and the output sorts by identifier.
func (p *Pipeline) Run(workload, classList *tabular.Dataset) (*Result, error) {
	if workload == nil {
		return nil, errors.NewValidationError("workload", nil, "dataset is required")
	}
	if !workload.HasColumn(p.columns.Grouping) {
		return nil, errors.NewConfigError("pipeline",
			"workload dataset lacks column "+p.columns.Grouping, errors.ErrMissingColumn)
	}

	p.index = freqindex.Build(workload, p.columns.SubCode)
	p.logger.Info().
		Int("rows", workload.Len()).
		Int("keys", p.index.Len()).
		Msg("frequency index built")

	result := &Result{}

	rosterMode := classList.Len() > 0
	p.runWorkload(workload, rosterMode, result)

	if rosterMode {
		p.runRoster(classList, result)
		p.runExtendedMaths(classList, result)
		records.SortByIdentifier(result.Records)
	} else {
		records.SortByGrouping(result.Records)
	}

	result.FirstLevelInvalid = p.verifier.InvalidCount()
	result.DeferredStored = p.store.Len()

	p.logger.Info().
		Int("processed", result.Processed()).
		Int("unprocessed", len(result.Unprocessed)).
		Int("first_level_invalid", result.FirstLevelInvalid).
		Int("deferred", result.DeferredStored).
		Int("recovered", result.DeferredRecovered).
		Msg("run complete")
	return result, nil
}

// runWorkload resolves every workload grouping. In the workload flow a
// resolved grouping becomes a record and an unresolved one a diagnostic.
// In the roster flow resolved groupings wait to be claimed per student,
// while unresolved 3-token groupings are deferred for later recovery.
func (p *Pipeline) runWorkload(workload *tabular.Dataset, rosterMode bool, result *Result) {
	for i, row := range workload.Rows {
		rowNum := i + 1
		grouping := normalize.Collapse(row.Get(p.columns.Grouping))
		if grouping == "" {
			continue
		}

		tokens := normalize.Tokenize(grouping)
		candidate, err := p.deriveCandidate(rowNum, grouping, tokens)
		if err != nil {
			p.withhold(result, rowNum, grouping, err)
			continue
		}

		resolved := p.resolver.Resolve(grouping, candidate)
		if resolved.Kind == codemap.MatchNone {
			if rosterMode && len(tokens) == 3 {
				p.defer3Token(row, tokens)
				continue
			}
			p.withhold(result, rowNum, grouping,
				errors.NewRowError(rowNum, grouping, "no reference match for candidate "+candidate, errors.ErrNoReferenceMatch))
			continue
		}

		if rosterMode {
			// Placed per student in the roster pass; the workload row
			// itself emits nothing.
			continue
		}

		group := normalize.ExtractLeadingGroup(grouping)
		verified := p.verifier.Verify(group, resolved.SubCode)
		resolved.SubCode = p.tables.ConvertSubCode(verified.SubCode)

		record, err := p.builder.Build(group, resolved, grouping)
		if err != nil {
			p.withhold(result, rowNum, grouping, err)
			continue
		}
		result.Records = append(result.Records, record)
	}
}

// defer3Token stores an unplaced grouping for later recovery, carrying the
// row's current sub-code after verification and conversion.
func (p *Pipeline) defer3Token(row tabular.Row, tokens []string) {
	subCode := strings.TrimSpace(row.Get(p.columns.SubCode))
	verified := p.verifier.Verify(tokens[0], subCode)
	p.store.Add(deferred.Entry{
		Group:   tokens[0],
		Subject: tokens[1],
		Teacher: tokens[2],
		SubCode: p.tables.ConvertSubCode(verified.SubCode),
	})
}

// deriveCandidate maps a tokenized grouping to its candidate: the second
// token of an eligible 3-token grouping, or the hyphen-stripped first
// token of a 2-token grouping.
func (p *Pipeline) deriveCandidate(rowNum int, grouping string, tokens []string) (string, error) {
	switch len(tokens) {
	case 3:
		if !normalize.IsEligible(grouping) {
			return "", errors.NewRowError(rowNum, grouping, "class field fails eligibility", errors.ErrIneligibleClass)
		}
		return tokens[1], nil
	case 2:
		return normalize.StripHyphens(tokens[0]), nil
	default:
		return "", errors.NewRowError(rowNum, grouping, "token count not 2 or 3", errors.ErrNoCandidate)
	}
}

// runRoster builds one record per student-subject assignment.
func (p *Pipeline) runRoster(classList *tabular.Dataset, result *Result) {
	for i, row := range classList.Rows {
		rowNum := i + 1
		identifier := strings.TrimSpace(row.Get(p.columns.Identifier))
		form := strings.TrimSpace(row.Get(p.columns.Form))
		class := strings.TrimSpace(row.Get(p.columns.Class))
		if identifier == "" || form == "" {
			continue
		}

		for _, column := range classList.Columns {
			if p.isStructuralColumn(column) {
				continue
			}
			teacher := strings.TrimSpace(row.Get(column))
			if teacher == "" {
				continue
			}
			p.reconcileAssignment(rowNum, identifier, form, class, column, teacher, result)
		}
	}
}

// isStructuralColumn reports whether a class-list column is not a subject
// column.
func (p *Pipeline) isStructuralColumn(column string) bool {
	return column == p.columns.Form ||
		column == p.columns.Class ||
		column == p.columns.Identifier
}

// reconcileAssignment places one student-subject assignment. The deferred
// store is consulted first: it holds exactly the groupings the first pass
// could not place, keyed for this search. Failing that, the substring
// matcher looks the composed grouping text up in the frequency index.
func (p *Pipeline) reconcileAssignment(rowNum int, identifier, form, class, subject, teacher string, result *Result) {
	var grouping, subCode string
	var kind codemap.MatchKind
	if entry, ok := p.store.Search(form, class, subject, teacher); ok {
		grouping = entry.Grouping()
		subCode = entry.SubCode
		kind = codemap.MatchDeferred
		result.DeferredRecovered++
	} else {
		query := form + class + " " + subject + " " + teacher
		match := p.index.FindMatches(query)
		if match.Count == 0 {
			p.logger.Debug().
				Str("identifier", identifier).
				Str("query", query).
				Msg("no grouping for assignment")
			return
		}
		grouping = match.FirstKey()
		if len(match.SubCodes) > 0 {
			subCode = match.SubCodes[0]
		}
		kind = codemap.MatchIndex
	}

	code := codemap.ResolvedCode{SubCode: subCode, Kind: kind}
	if subCode != "" {
		code.SubjectCode = p.resolver.SubjectFor(subCode)
	}
	if !code.Resolved() {
		code = p.resolver.Resolve(grouping, subject)
	}
	if !code.Resolved() {
		p.withhold(result, rowNum, grouping,
			errors.NewRowError(rowNum, grouping, "no reference match for assignment "+subject, errors.ErrNoReferenceMatch))
		return
	}

	// A deferred entry's sub-code was verified and converted when stored;
	// re-verifying it would double-count a persisting violation. Codes from
	// any other source still carry the raw workload sub-code.
	if code.Kind != codemap.MatchDeferred {
		verified := p.verifier.Verify(form+class, code.SubCode)
		code.SubCode = p.tables.ConvertSubCode(verified.SubCode)
	}

	record, err := p.builder.Build(identifier, code, grouping)
	if err != nil {
		p.withhold(result, rowNum, grouping, err)
		return
	}
	p.logger.Debug().
		Str("identifier", identifier).
		Str("grouping", grouping).
		Str("match_kind", string(code.Kind)).
		Msg("assignment placed")
	result.Records = append(result.Records, record)
}

// runExtendedMaths is the final pass: deferred entries whose group has
// exactly one digit and whose subject is the "(M2)" marker form the
// candidate list; senior students whose compound-subject column mentions
// M2 take the first candidate whose group starts with their form number
// and receive the fixed extended-maths pair.
func (p *Pipeline) runExtendedMaths(classList *tabular.Dataset, result *Result) {
	candidates := p.store.SelectByMarker(m2Subject)
	if len(candidates) == 0 {
		return
	}

	pair, ok := p.tables.SpecialPairs[m2Code]
	if !ok {
		return
	}

	for _, row := range classList.Rows {
		identifier := strings.TrimSpace(row.Get(p.columns.Identifier))
		form, okForm := normalize.LeadingInt(row.Get(p.columns.Form))
		if identifier == "" || !okForm || form <= constants.JuniorFormMax {
			continue
		}
		if !strings.Contains(row.Get(p.columns.CompoundSub), m2Fragment) {
			continue
		}

		formStr := strings.TrimSpace(row.Get(p.columns.Form))
		for _, candidate := range candidates {
			if !strings.HasPrefix(candidate.Group, formStr) {
				continue
			}
			record, err := p.builder.Build(identifier, codemap.ResolvedCode{
				SubCode:     pair.SubCode,
				SubjectCode: pair.SubjectCode,
				Kind:        codemap.MatchSpecialCase,
			}, candidate.Grouping())
			if err == nil {
				p.logger.Info().
					Str("identifier", identifier).
					Str("grouping", candidate.Grouping()).
					Msg("extended maths record synthesized")
				result.Records = append(result.Records, record)
				result.DeferredRecovered++
			}
			break
		}
	}
}

// withhold demotes a row to the unprocessed diagnostics.
func (p *Pipeline) withhold(result *Result, rowNum int, grouping string, err error) {
	p.logger.Warn().
		Int("row", rowNum).
		Str("grouping", grouping).
		Err(err).
		Msg("row withheld")
	result.Unprocessed = append(result.Unprocessed, Diagnostic{Row: rowNum, Reason: err.Error()})
}
