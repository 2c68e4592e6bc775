package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(person, year string, drivers map[string][]string) Evaluation {
	rec := Evaluation{Person: person, Year: year}
	for name, behaviors := range drivers {
		d := Driver{Name: name}
		for _, b := range behaviors {
			d.Behaviors = append(d.Behaviors, Behavior{Name: b})
		}
		rec.Drivers = append(rec.Drivers, d)
	}
	return rec
}

func TestIndex_Lookups(t *testing.T) {
	idx := NewIndex([]Evaluation{
		record("ana", "2022", map[string][]string{"d1": {"a", "b"}}),
		record("ana", "2023", map[string][]string{"d1": {"a"}}),
		record("bruno", "2023", map[string][]string{"d1": {"a", "c"}}),
	})

	assert.Equal(t, []string{"ana", "bruno"}, idx.People())
	assert.Equal(t, []string{"2022", "2023"}, idx.Years())
	assert.Equal(t, []string{"2022", "2023"}, idx.YearsFor("ana"))
	assert.Equal(t, []string{"ana", "bruno"}, idx.PeopleForYear("2023"))
	assert.Empty(t, idx.YearsFor("desconhecido"))

	rec, ok := idx.Get("ana", "2022")
	require.True(t, ok)
	assert.Equal(t, "ana", rec.Person)

	_, ok = idx.Get("ana", "2021")
	assert.False(t, ok)
}

func TestIndex_CriteriaForYearUnionsPeople(t *testing.T) {
	idx := NewIndex([]Evaluation{
		record("ana", "2023", map[string][]string{"d1": {"a"}}),
		record("bruno", "2023", map[string][]string{"d1": {"c"}, "d2": {"x"}}),
	})

	crit := idx.CriteriaForYear("2023")
	require.NotNil(t, crit)
	assert.Len(t, crit["d1"], 2)
	assert.Contains(t, crit["d2"], "x")

	assert.Nil(t, idx.CriteriaForYear("1999"))
}

func TestIndex_LaterRecordReplacesEarlier(t *testing.T) {
	first := record("ana", "2023", map[string][]string{"d1": {"a"}})
	second := record("ana", "2023", map[string][]string{"d1": {"a", "b"}})

	idx := NewIndex([]Evaluation{first, second})
	crit := idx.CriteriaFor("ana", "2023")
	assert.Len(t, crit["d1"], 2)
}

func TestIndex_SkipsRecordsWithoutKeys(t *testing.T) {
	idx := NewIndex([]Evaluation{
		{Person: "", Year: "2023"},
		{Person: "ana", Year: ""},
	})
	assert.Empty(t, idx.People())
}
