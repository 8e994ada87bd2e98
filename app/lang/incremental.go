package lang

// CachedLine holds the cached state for a single line.
type CachedLine struct {
	Text    string
	Stmt    Stmt
	Result  Result
	Err     error
	IsEmpty bool // line was blank or comment
	// Registry is the session state after this line ran. Expression lines
	// share their predecessor's registry; definition lines own a clone.
	Registry *Registry
}

// EvalResult is the result of evaluating a single line.
type EvalResult struct {
	Text  string // formatted result
	IsErr bool
	IsDef bool // line was a successful definition
}

// EvalState holds the incremental evaluation cache for a notepad whose
// lines are the statements of one session.
type EvalState struct {
	base  *Registry
	Lines []CachedLine
}

// NewEvalState creates a notepad session on top of base, which is never
// modified. A nil base starts from an empty registry.
func NewEvalState(base *Registry) *EvalState {
	if base == nil {
		base = NewRegistry()
	}
	return &EvalState{base: base}
}

// SetBase replaces the starting registry and drops the cache.
func (es *EvalState) SetBase(base *Registry) {
	es.base = base
	es.Lines = nil
}

// EvalAllIncremental evaluates lines in order, reusing cached results while
// a line and every line above it are unchanged. Once a line differs, it and
// everything below it run again against the registry snapshot left by the
// last clean line.
func (es *EvalState) EvalAllIncremental(lines []string) []EvalResult {
	if es.base == nil {
		es.base = NewRegistry()
	}
	results := make([]EvalResult, len(lines))
	reg := es.base
	dirty := false

	for i, line := range lines {
		if !dirty && i < len(es.Lines) && es.Lines[i].Text == line {
			cached := &es.Lines[i]
			reg = cached.Registry
			results[i] = cached.result()
			continue
		}

		if !dirty {
			dirty = true
			es.Lines = es.Lines[:i]
		}

		cached := CachedLine{Text: line}
		stmt, err := ParseLine(line)
		switch {
		case err != nil:
			cached.Err = err
		case stmt == nil:
			cached.IsEmpty = true
		case isDefinitionStmt(stmt):
			next := reg.Clone()
			cached.Stmt = stmt
			cached.Result, cached.Err = Exec(next, stmt)
			if cached.Err == nil {
				reg = next
			}
		default:
			cached.Stmt = stmt
			cached.Result, cached.Err = Exec(reg, stmt)
		}
		cached.Registry = reg
		es.Lines = append(es.Lines, cached)
		results[i] = cached.result()
	}

	if len(es.Lines) > len(lines) {
		es.Lines = es.Lines[:len(lines)]
	}
	return results
}

// Registry returns the session state after the last evaluated line.
func (es *EvalState) Registry() *Registry {
	if n := len(es.Lines); n > 0 {
		return es.Lines[n-1].Registry
	}
	if es.base == nil {
		return NewRegistry()
	}
	return es.base
}

func (c *CachedLine) result() EvalResult {
	switch {
	case c.IsEmpty:
		return EvalResult{}
	case c.Err != nil:
		return EvalResult{Text: c.Err.Error(), IsErr: true}
	default:
		return EvalResult{Text: c.Result.String(), IsDef: c.Result.IsDefinition()}
	}
}

func isDefinitionStmt(stmt Stmt) bool {
	_, isExpr := stmt.(*ExprStmt)
	return !isExpr
}
