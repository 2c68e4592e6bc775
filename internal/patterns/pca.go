package patterns

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"peoplestats/domain/core"
)

// dominantLoadingThreshold marks a behavior as dominant for a component.
const dominantLoadingThreshold = 0.3

// PCA extracts principal components from the behavior sample matrix
// (observations = sample positions, variables = behaviors). The component
// count is clamped to min(requested, samples, behaviors). Fails with
// ErrInsufficientData when fewer than two samples exist.
func (a *Analyzer) PCA(series ScoreSeries, nComponents int) (PCAResult, error) {
	names := sortedNames(series)
	rows, err := sampleMatrix(series, names)
	if err != nil {
		return PCAResult{}, err
	}

	behaviors := len(names)
	if behaviors == 0 {
		return PCAResult{}, core.ErrInsufficientData
	}
	samples := len(rows[0])
	if samples < 2 {
		return PCAResult{}, core.ErrInsufficientData
	}

	// gonum expects observations as matrix rows, so the behavior-major
	// series is transposed into samples x behaviors.
	flat := make([]float64, samples*behaviors)
	for j, row := range rows {
		for i, v := range row {
			flat[i*behaviors+j] = v
		}
	}
	observations := mat.NewDense(samples, behaviors, flat)

	var pc stat.PC
	if ok := pc.PrincipalComponents(observations, nil); !ok {
		return PCAResult{}, core.ErrInsufficientData
	}

	variances := pc.VarsTo(nil)
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	available := len(variances)
	if nComponents > available {
		nComponents = available
	}
	if nComponents < 1 {
		nComponents = 1
	}

	totalVariance := 0.0
	for _, v := range variances {
		totalVariance += v
	}

	result := PCAResult{NumComponents: nComponents}
	for i := 0; i < nComponents; i++ {
		ratio := 0.0
		if totalVariance > 0 {
			ratio = variances[i] / totalVariance
		}
		result.ExplainedVarianceRatios = append(result.ExplainedVarianceRatios, ratio)
		result.TotalExplainedVariance += ratio

		component := Component{ID: i, ExplainedVarianceRatio: ratio}
		for j, name := range names {
			loading := vectors.At(j, i)
			if math.Abs(loading) <= dominantLoadingThreshold {
				continue
			}
			direction := "positive"
			if loading < 0 {
				direction = "negative"
			}
			component.Dominant = append(component.Dominant, ComponentLoading{
				Behavior:        name,
				Loading:         loading,
				AbsoluteLoading: math.Abs(loading),
				Direction:       direction,
			})
		}
		sort.SliceStable(component.Dominant, func(x, y int) bool {
			if component.Dominant[x].AbsoluteLoading != component.Dominant[y].AbsoluteLoading {
				return component.Dominant[x].AbsoluteLoading > component.Dominant[y].AbsoluteLoading
			}
			return component.Dominant[x].Behavior < component.Dominant[y].Behavior
		})
		result.Components = append(result.Components, component)
	}

	return result, nil
}
