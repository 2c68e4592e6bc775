package evaluation

// OverallEvaluator is the sentinel evaluator id for the aggregate-of-all-raters
// assessment. Year-over-year aggregation reads only this evaluator's scores.
const OverallEvaluator = "%todos"

// Assessment holds one evaluator's frequency counts for a behavior, for both
// the evaluated individual and the reference group.
type Assessment struct {
	Evaluator  string          `json:"evaluator"`
	Individual FrequencyVector `json:"individual"`
	Group      FrequencyVector `json:"group"`
}

// Behavior is a single observable competency statement with its assessments.
type Behavior struct {
	Name        string       `json:"name"`
	Assessments []Assessment `json:"assessments"`
}

// Overall returns the aggregate-of-all-raters assessment, if present.
func (b Behavior) Overall() (Assessment, bool) {
	for _, a := range b.Assessments {
		if a.Evaluator == OverallEvaluator {
			return a, true
		}
	}
	return Assessment{}, false
}

// Driver is a top-level competency dimension grouping behaviors.
type Driver struct {
	Name      string     `json:"name"`
	Behaviors []Behavior `json:"behaviors"`
}

// Evaluation is the canonical per-person per-year record. The ingestion
// adapter maps both historical JSON field spellings onto this shape; the
// engines never see raw JSON.
type Evaluation struct {
	Person  string   `json:"person"`
	Year    string   `json:"year"`
	Concept string   `json:"concept,omitempty"`
	Drivers []Driver `json:"drivers"`
}

// BehaviorSet is a set of behavior names.
type BehaviorSet map[string]struct{}

// Clone returns an independent copy of the set.
func (s BehaviorSet) Clone() BehaviorSet {
	out := make(BehaviorSet, len(s))
	for b := range s {
		out[b] = struct{}{}
	}
	return out
}

// Intersect keeps only behaviors also present in other.
func (s BehaviorSet) Intersect(other BehaviorSet) {
	for b := range s {
		if _, ok := other[b]; !ok {
			delete(s, b)
		}
	}
}

// Criteria maps driver name to the behaviors evaluated under it.
type Criteria map[string]BehaviorSet
