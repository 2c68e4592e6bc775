package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplestats/app"
	"peoplestats/internal"
	"peoplestats/internal/comparison"
	"peoplestats/internal/patterns"
	"peoplestats/internal/scoring"
	"peoplestats/internal/testkit"
)

func newTestServer() *httptest.Server {
	logger := internal.NewLogger(internal.LogLevelError)
	index := testkit.NewTestKit().Index()
	comparator := comparison.NewComparator(scoring.ModelNPS, false)
	analyzer := patterns.NewAnalyzer(patterns.NewKMeansClusterer(), comparator)
	svc := app.NewAnalysisService(index, analyzer, scoring.ModelNPS, false)
	batch := app.NewBatchRunner(svc, 2, logger)
	return httptest.NewServer(NewApp(svc, batch, logger).Handler())
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_PeopleAndYears(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	var people struct {
		People []string `json:"people"`
	}
	status := getJSON(t, srv.URL+"/api/people", &people)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, people.People, len(testkit.People))

	var years struct {
		Years []string `json:"years"`
	}
	status = getJSON(t, srv.URL+"/api/years", &years)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"2021", "2022", "2023", "2024"}, years.Years)
}

func TestAPI_History(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	var history struct {
		Person string   `json:"person"`
		Years  []string `json:"years"`
	}
	status := getJSON(t, srv.URL+"/api/people/"+url.PathEscape("Pedro Santos")+"/history", &history)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Pedro Santos", history.Person)
	assert.Len(t, history.Years, 4)
}

func TestAPI_NotFound(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	status := getJSON(t, srv.URL+"/api/people/"+url.PathEscape("ninguém")+"/years", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, srv.URL+"/api/years/1999/comparison", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_YearComparison(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	var result struct {
		Year   string `json:"year"`
		People []struct {
			Person       string  `json:"person"`
			NumBehaviors int     `json:"num_behaviors"`
			Difference   float64 `json:"difference"`
		} `json:"people"`
	}
	status := getJSON(t, srv.URL+"/api/years/2022/comparison", &result)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2022", result.Year)
	assert.Len(t, result.People, len(testkit.People))
}

func TestAPI_Batch(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/batch", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Person string `json:"person"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Results, len(testkit.People)*4)
}
