package core

// NodeKind is the closed set of syntax-tree shapes the engine dispatches on.
// Language configs map their grammar's node types onto these kinds; grammar
// nodes without a mapping are still visited but never dispatched.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindCall
	KindComposite
	KindString
	KindConditional
	KindFunction
	KindImport
	KindIdentifier
	KindComment
	KindAssignment
	KindBinary
)

// String returns the kind's stable name, used in logs and rule listings.
func (k NodeKind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindComposite:
		return "composite"
	case KindString:
		return "string"
	case KindConditional:
		return "conditional"
	case KindFunction:
		return "function"
	case KindImport:
		return "import"
	case KindIdentifier:
		return "identifier"
	case KindComment:
		return "comment"
	case KindAssignment:
		return "assignment"
	case KindBinary:
		return "binary"
	default:
		return "invalid"
	}
}

// Kinds lists every dispatchable node kind.
func Kinds() []NodeKind {
	return []NodeKind{
		KindCall,
		KindComposite,
		KindString,
		KindConditional,
		KindFunction,
		KindImport,
		KindIdentifier,
		KindComment,
		KindAssignment,
		KindBinary,
	}
}
