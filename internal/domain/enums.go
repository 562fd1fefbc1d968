package domain

// Origin records how an issue entered a graph snapshot.
type Origin string

const (
	// OriginSeed marks issues matched by the primary search query.
	OriginSeed Origin = "seed"
	// OriginDiscovered marks issues pulled in only by link traversal.
	OriginDiscovered Origin = "discovered"
)

// Edge labels produced by graph construction.
const (
	LabelBlocks  = "blocks"
	LabelSubtask = "subtask"
)
