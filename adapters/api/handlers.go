package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"peoplestats/domain/core"
)

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	case core.IsInputError(err):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handlePeople(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"people": a.svc.People()})
}

func (a *App) handleYears(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"years": a.svc.Years()})
}

func (a *App) handlePersonYears(w http.ResponseWriter, r *http.Request) {
	person := chi.URLParam(r, "person")
	years, err := a.svc.YearsFor(person)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"person": person, "years": years})
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := a.svc.YearOverYear(chi.URLParam(r, "person"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, history)
}

func (a *App) handleBehaviors(w http.ResponseWriter, r *http.Request) {
	person := chi.URLParam(r, "person")
	year := chi.URLParam(r, "year")
	scores, err := a.svc.BehaviorScores(person, year)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"person": person,
		"year":   year,
		"scores": scores,
	})
}

func (a *App) handlePatterns(w http.ResponseWriter, r *http.Request) {
	report, err := a.svc.PatternsFor(chi.URLParam(r, "person"), chi.URLParam(r, "year"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, report)
}

func (a *App) handleYearCriteria(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	criteria, err := a.svc.CriteriaForYear(year)
	if err != nil {
		a.writeError(w, err)
		return
	}

	// Sets serialize poorly; flatten to sorted name lists.
	out := make(map[string][]string, len(criteria))
	for driver, set := range criteria {
		for behavior := range set {
			out[driver] = append(out[driver], behavior)
		}
		sort.Strings(out[driver])
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"year": year, "criteria": out})
}

func (a *App) handleYearComparison(w http.ResponseWriter, r *http.Request) {
	result, err := a.svc.CompareYear(chi.URLParam(r, "year"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) handleBatch(w http.ResponseWriter, r *http.Request) {
	result, err := a.batch.Run(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}
