package engine

import (
	"errors"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
)

// KindMapper translates a grammar's node type strings into the closed set of
// dispatch kinds. Implemented by the language configs in package lang.
type KindMapper interface {
	Kind(nodeType string) (core.NodeKind, bool)
}

// FactSource is the read path into the project-level fact cache. Implemented
// by projcache.Cache; the session treats it as an opaque capability.
type FactSource interface {
	GetOrCompute(projectRoot, factKind string, compute func() (any, error)) core.Fact
}

// Options describe one analysis session over one file. The syntax tree is
// borrowed from the external parser and never mutated.
type Options struct {
	FilePath    string
	ProjectRoot string
	Source      []byte
	Root        *sitter.Node
	Kinds       KindMapper

	// Rules are the enabled rule bindings, in a deterministic order chosen
	// by the host. Rule IDs must be unique within the session.
	Rules []Binding

	// SeverityOverrides replaces a rule's default severity when assembling
	// its diagnostics. Loading override tables is the host's business.
	SeverityOverrides map[core.RuleID]core.Severity

	// Facts is the shared project cache; nil disables fact lookups (rules
	// then see only negative facts).
	Facts FactSource

	// Logger receives rule-internal failure records. Nil means slog.Default.
	Logger *slog.Logger
}

type phase int

const (
	phaseBuilding phase = iota
	phaseWalking
	phaseDraining
	phaseFinalized
)

func (p phase) String() string {
	switch p {
	case phaseBuilding:
		return "building"
	case phaseWalking:
		return "walking"
	case phaseDraining:
		return "draining"
	default:
		return "finalized"
	}
}

// RuleFailure records one isolated rule-internal failure: a callback or
// deferred task that panicked, or an invalid construction it attempted.
// Failures are logged and reported to the host, never to the user.
type RuleFailure struct {
	Rule  core.RuleID
	Range core.SourceRange
	Err   error
}

type deferredTask struct {
	rule core.RuleID
	fn   DeferredFunc
}

// Session is one end-to-end analysis run over one file. Phases advance one
// way only: building, walking, draining, finalized.
type Session struct {
	opts        Options
	registry    *Registry
	reporter    *reporter
	descriptors map[core.RuleID]core.RuleDescriptor
	deferred    []deferredTask
	failures    []RuleFailure
	phase       phase
	visited     int
	log         *slog.Logger
	rc          *RunContext
}

// NewSession builds the session registry from the enabled rule bindings and
// freezes it. The registry cannot be extended afterwards.
func NewSession(opts Options) (*Session, error) {
	if opts.Root == nil {
		return nil, errors.New("session: nil syntax tree root")
	}
	if opts.Kinds == nil {
		return nil, errors.New("session: nil kind mapper")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		opts:        opts,
		registry:    NewRegistry(),
		reporter:    newReporter(len(opts.Source)),
		descriptors: make(map[core.RuleID]core.RuleDescriptor, len(opts.Rules)),
		phase:       phaseBuilding,
		log:         logger.With("file", opts.FilePath),
	}
	s.rc = &RunContext{session: s}

	for _, b := range opts.Rules {
		id := b.Descriptor.ID
		if id == "" {
			return nil, errors.New("session: rule binding without id")
		}
		if _, dup := s.descriptors[id]; dup {
			return nil, fmt.Errorf("session: duplicate rule id %q", id)
		}
		s.descriptors[id] = b.Descriptor
		for _, kind := range core.Kinds() {
			fn, ok := b.Hooks[kind]
			if !ok {
				continue
			}
			if err := s.registry.Register(kind, id, fn); err != nil {
				return nil, err
			}
		}
	}
	s.registry.Build()

	return s, nil
}

// Run walks the tree exactly once (pre-order, parent before children,
// siblings in source order), fires every registered callback per node kind,
// drains deferred tasks, and returns the finalized diagnostic set. Each
// callback's failures are isolated from the walk and from other rules.
func (s *Session) Run() (core.DiagnosticSet, error) {
	if s.phase != phaseBuilding {
		return core.DiagnosticSet{}, fmt.Errorf("session: run called in phase %s", s.phase)
	}

	s.phase = phaseWalking
	s.walk(s.opts.Root)

	s.phase = phaseDraining
	for _, task := range s.deferred {
		s.invokeDeferred(task)
	}
	s.deferred = nil

	s.phase = phaseFinalized
	return core.DiagnosticSet{
		File:        s.opts.FilePath,
		Diagnostics: s.reporter.finalize(),
	}, nil
}

// Failures returns the isolated rule-internal failures collected so far.
func (s *Session) Failures() []RuleFailure {
	return s.failures
}

// NodesVisited returns how many tree nodes the walk touched. The walk visits
// every node exactly once regardless of how many rules are registered.
func (s *Session) NodesVisited() int {
	return s.visited
}

func (s *Session) walk(node *sitter.Node) {
	s.visited++

	if kind, ok := s.opts.Kinds.Kind(node.Type()); ok {
		for _, cb := range s.registry.callbacks(kind) {
			s.invoke(cb, node)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		s.walk(node.Child(i))
	}
}

// invoke runs one immediate callback with panic isolation. A panicking rule
// degrades to "this rule emits nothing here", never to an aborted walk.
func (s *Session) invoke(cb callback, node *sitter.Node) {
	defer func() {
		s.rc.current = ""
		if r := recover(); r != nil {
			s.recordFailure(cb.rule, rangeOf(node), fmt.Errorf("callback panicked: %v", r))
		}
	}()
	s.rc.current = cb.rule
	cb.fn(s.rc, node)
}

func (s *Session) invokeDeferred(task deferredTask) {
	defer func() {
		s.rc.current = ""
		if r := recover(); r != nil {
			s.recordFailure(task.rule, core.SourceRange{}, fmt.Errorf("deferred task panicked: %v", r))
		}
	}()
	s.rc.current = task.rule
	task.fn(s.rc)
}

func (s *Session) recordFailure(rule core.RuleID, at core.SourceRange, err error) {
	s.failures = append(s.failures, RuleFailure{Rule: rule, Range: at, Err: err})
	s.log.Warn("rule failure isolated",
		"rule", rule,
		"start", at.Start,
		"end", at.End,
		"err", err)
}

// severityFor resolves the effective severity for a rule: host override
// first, then the descriptor default.
func (s *Session) severityFor(rule core.RuleID) core.Severity {
	if sev, ok := s.opts.SeverityOverrides[rule]; ok {
		return sev
	}
	return s.descriptors[rule].DefaultSeverity
}

func rangeOf(node *sitter.Node) core.SourceRange {
	return core.SourceRange{Start: node.StartByte(), End: node.EndByte()}
}
