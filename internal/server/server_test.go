package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/model"
)

func testServer(t *testing.T, src analyzer.Source) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Router(NewHandler(src), []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func loaded() analyzer.Source {
	return analyzer.Static{Data: &model.Dataset{
		Header: []string{"year", "6over", "10over", "15over", "20over", "26over", "result"},
		Records: []model.Record{
			{"year": "2021", "6over": "40/1", "10over": "70/2", "15over": "110/3", "20over": "150/3", "26over": "80/0", "result": "chased"},
			{"year": "2022", "6over": "40/2", "10over": "65/2", "15over": "100/3", "20over": "150/4", "26over": "60/1", "result": "defend"},
			{"year": "2020", "6over": "30/0", "10over": "60/1", "15over": "105/2", "20over": "150/3", "26over": "75/2", "result": "Defend"},
		},
	}}
}

func do(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func newSession(t *testing.T, base string) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, base+"/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealth(t *testing.T) {
	srv := testServer(t, loaded())
	resp, body := do(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestChaseFlow(t *testing.T) {
	srv := testServer(t, loaded())
	id := newSession(t, srv.URL)
	base := srv.URL + "/api/v1/sessions/" + id

	resp, body := do(t, http.MethodPost, base+"/chase", ChaseRequest{Score: "80/2", Over: 26})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Target score required for 2nd innings analysis.", body["error"])

	resp, body = do(t, http.MethodPost, base+"/chase", ChaseRequest{Score: "150/3", Over: 20})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 50, stats["chased_pct"])

	// target captured above carries over
	resp, body = do(t, http.MethodPost, base+"/chase", ChaseRequest{Score: "80/2", Over: 26})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	resp, body = do(t, http.MethodPost, base+"/chase/view", ViewRequest{Action: "sort", Column: "Year"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sort := body["sort"].(map[string]any)
	assert.Equal(t, "Year", sort["column"])
	assert.Equal(t, true, sort["ascending"])
}

func TestMatchFlow(t *testing.T) {
	srv := testServer(t, loaded())
	base := srv.URL + "/api/v1/sessions/" + newSession(t, srv.URL)

	resp, body := do(t, http.MethodPost, base+"/match", MatchRequest{Score20: "150/4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["total"])
	assert.Len(t, body["ranges"], 12)

	resp, body = do(t, http.MethodPost, base+"/match/view", ViewRequest{Action: "years", Years: []int{2022}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["visible"])
	assert.EqualValues(t, 3, body["total"])
	rows := body["rows"].([]any)
	row := rows[0].(map[string]any)
	assert.Equal(t, []any{"20over"}, row["matches_wickets_at"])

	resp, _ = do(t, http.MethodPost, base+"/match/view", ViewRequest{Action: "result", Result: "chased"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/match/view", ViewRequest{Action: "bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/match", MatchRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestViewBeforeQuery(t *testing.T) {
	srv := testServer(t, loaded())
	base := srv.URL + "/api/v1/sessions/" + newSession(t, srv.URL)

	resp, _ := do(t, http.MethodPost, base+"/chase/view", ViewRequest{Action: "min", Min: 2})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/other/view", ViewRequest{Action: "min"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotReady(t *testing.T) {
	srv := testServer(t, analyzer.Static{})
	base := srv.URL + "/api/v1/sessions/" + newSession(t, srv.URL)

	resp, body := do(t, http.MethodPost, base+"/chase", ChaseRequest{Score: "40/1", Over: 6})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body["error"], "loading")
}

func TestUnknownAndDeletedSession(t *testing.T) {
	srv := testServer(t, loaded())

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/v1/sessions/nope/chase", ChaseRequest{Score: "40/1", Over: 6})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id := newSession(t, srv.URL)
	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionsAreIndependent(t *testing.T) {
	srv := testServer(t, loaded())
	a := srv.URL + "/api/v1/sessions/" + newSession(t, srv.URL)
	b := srv.URL + "/api/v1/sessions/" + newSession(t, srv.URL)

	resp, _ := do(t, http.MethodPost, a+"/chase", ChaseRequest{Score: "150/3", Over: 20})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, b+"/chase", ChaseRequest{Score: "80/2", Over: 26})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSweepDropsIdleSessions(t *testing.T) {
	var clock atomic.Int64
	clock.Store(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixNano())
	advance := func(d time.Duration) { clock.Add(int64(d)) }

	h := NewHandler(loaded())
	h.now = func() time.Time { return time.Unix(0, clock.Load()) }
	srv := httptest.NewServer(Router(h, []string{"*"}))
	t.Cleanup(srv.Close)

	idle := newSession(t, srv.URL)
	active := newSession(t, srv.URL)

	advance(20 * time.Minute)
	resp, _ := do(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+active+"/chase", ChaseRequest{Score: "150/3", Over: 20})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	advance(15 * time.Minute)
	assert.Equal(t, 1, h.Sweep())

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+idle+"/chase", ChaseRequest{Score: "150/3", Over: 20})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+active+"/chase", ChaseRequest{Score: "150/3", Over: 20})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	h.TTL = 0
	advance(24 * time.Hour)
	assert.Equal(t, 0, h.Sweep())
}
