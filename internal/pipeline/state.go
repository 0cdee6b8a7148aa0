package pipeline

// State is a phase of a collection run. A run moves through the states in
// declaration order and never goes back.
type State int

const (
	StateResolving State = iota
	StateFetching
	StateDeduplicating
	StateFiltering
	StateEnriching
	StateAnalyzing
	StatePersisting
	StateDone
)

var stateNames = [...]string{
	"resolving",
	"fetching",
	"deduplicating",
	"filtering",
	"enriching",
	"analyzing",
	"persisting",
	"done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Per-article stage labels used in logs and metrics.
const (
	stageExists     = "exists"
	stageGate       = "gate"
	stageEnrich     = "enrich"
	stageAnalyze    = "analyze"
	stageNeutralize = "neutralize"
	stageExtract    = "extract"
	stagePersist    = "persist"
)
