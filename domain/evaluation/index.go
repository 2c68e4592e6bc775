package evaluation

import (
	"sort"
)

// Index is an immutable person -> year -> record lookup built once from the
// ingested dataset. Engines receive it by reference and never mutate it, so
// concurrent queries are safe without locking.
type Index struct {
	byPerson map[string]map[string]*Evaluation
	criteria map[string]Criteria
	people   []string
	years    []string
}

// NewIndex builds an index from canonical records. Later records for the same
// (person, year) replace earlier ones.
func NewIndex(records []Evaluation) *Index {
	idx := &Index{
		byPerson: make(map[string]map[string]*Evaluation),
		criteria: make(map[string]Criteria),
	}

	for i := range records {
		rec := records[i]
		if rec.Person == "" || rec.Year == "" {
			continue
		}
		years, ok := idx.byPerson[rec.Person]
		if !ok {
			years = make(map[string]*Evaluation)
			idx.byPerson[rec.Person] = years
		}
		years[rec.Year] = &rec

		// Accumulate the per-year criteria catalog across all people.
		crit, ok := idx.criteria[rec.Year]
		if !ok {
			crit = make(Criteria)
			idx.criteria[rec.Year] = crit
		}
		for _, d := range rec.Drivers {
			set, ok := crit[d.Name]
			if !ok {
				set = make(BehaviorSet)
				crit[d.Name] = set
			}
			for _, b := range d.Behaviors {
				set[b.Name] = struct{}{}
			}
		}
	}

	for person := range idx.byPerson {
		idx.people = append(idx.people, person)
	}
	sort.Strings(idx.people)
	for year := range idx.criteria {
		idx.years = append(idx.years, year)
	}
	sort.Strings(idx.years)

	return idx
}

// People returns all person names, sorted.
func (idx *Index) People() []string {
	out := make([]string, len(idx.people))
	copy(out, idx.people)
	return out
}

// Years returns all years present in the dataset, ascending.
func (idx *Index) Years() []string {
	out := make([]string, len(idx.years))
	copy(out, idx.years)
	return out
}

// YearsFor returns the years a person was evaluated in, ascending.
func (idx *Index) YearsFor(person string) []string {
	years, ok := idx.byPerson[person]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}

// PeopleForYear returns everyone with a record in the given year, sorted.
func (idx *Index) PeopleForYear(year string) []string {
	var out []string
	for _, person := range idx.people {
		if _, ok := idx.byPerson[person][year]; ok {
			out = append(out, person)
		}
	}
	return out
}

// Get returns the record for a (person, year) pair.
func (idx *Index) Get(person, year string) (*Evaluation, bool) {
	years, ok := idx.byPerson[person]
	if !ok {
		return nil, false
	}
	rec, ok := years[year]
	return rec, ok
}

// CriteriaFor returns the person's own driver -> behavior-set mapping for a
// year, or nil when no record exists.
func (idx *Index) CriteriaFor(person, year string) Criteria {
	rec, ok := idx.Get(person, year)
	if !ok {
		return nil
	}
	crit := make(Criteria, len(rec.Drivers))
	for _, d := range rec.Drivers {
		set := make(BehaviorSet, len(d.Behaviors))
		for _, b := range d.Behaviors {
			set[b.Name] = struct{}{}
		}
		crit[d.Name] = set
	}
	return crit
}

// CriteriaForYear returns the dataset-wide criteria catalog for a year.
func (idx *Index) CriteriaForYear(year string) Criteria {
	crit, ok := idx.criteria[year]
	if !ok {
		return nil
	}
	out := make(Criteria, len(crit))
	for driver, set := range crit {
		out[driver] = set.Clone()
	}
	return out
}
