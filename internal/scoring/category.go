package scoring

// Category is the qualitative label for a score band.
type Category string

const (
	CategoryExcellent      Category = "Excelente"
	CategoryGood           Category = "Bom"
	CategoryRegular        Category = "Regular"
	CategoryBelow          Category = "Abaixo"
	CategoryUnsatisfactory Category = "Insatisfatório"
	// CategoryUndefined is returned for scores outside the model domain.
	// Scores produced by the engine are bounded by construction, so this
	// only appears for values fabricated by callers.
	CategoryUndefined Category = "Indefinido"
)

type band struct {
	min, max float64
	category Category
}

// Five contiguous equal-width bands over the raw NPS domain [-10,10]. The
// upper bound is inclusive only for the top band.
var rawBands = []band{
	{7.5, 10, CategoryExcellent},
	{2.5, 7.5, CategoryGood},
	{-2.5, 2.5, CategoryRegular},
	{-7.5, -2.5, CategoryBelow},
	{-10, -7.5, CategoryUnsatisfactory},
}

// The same bands mapped through 50 + raw*5 onto [0,100].
var normalizedBands = []band{
	{87.5, 100, CategoryExcellent},
	{62.5, 87.5, CategoryGood},
	{37.5, 62.5, CategoryRegular},
	{12.5, 37.5, CategoryBelow},
	{0, 12.5, CategoryUnsatisfactory},
}

// Categorize maps a score onto its qualitative band. Set normalized when the
// score lives on the [0,100] scale rather than the raw [-10,10] one.
func (e *Engine) Categorize(score float64, normalized bool) Category {
	bands := rawBands
	if normalized {
		bands = normalizedBands
	}
	for i, b := range bands {
		if i == 0 {
			if score >= b.min && score <= b.max {
				return b.category
			}
			continue
		}
		if score >= b.min && score < b.max {
			return b.category
		}
	}
	return CategoryUndefined
}
