package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitesim/internal/config"
	"github.com/sitescout/sitesim/internal/model"
	"github.com/sitescout/sitesim/internal/resolve"
)

// fakeUpstream serves a fixed catalog and candidate list without a network.
type fakeUpstream struct {
	catalogErr error
}

func (f *fakeUpstream) Catalog(context.Context) (any, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return []any{
		map[string]any{"id": "1", "name": "Northern Virginia", "lat": 38.95, "lng": -77.45},
		map[string]any{"id": "2", "name": "Oregon", "lat": 45.60, "lng": -121.18},
	}, nil
}

func (f *fakeUpstream) Candidates(context.Context) (any, error) {
	return []any{
		map[string]any{"name": "Quincy", "lat": 47.23, "lng": -119.85},
	}, nil
}

func (f *fakeUpstream) PropertyDetails(context.Context, float64, float64) (map[string]any, error) {
	return map[string]any{"land_price": "$2,500,000", "zone_type": "Industrial"}, nil
}

func newTestServer(t *testing.T, budget int) *httptest.Server {
	t.Helper()

	cfg = &config.Config{}
	cfg.Simulation.StartingBudget = budget
	cfg.Simulation.BuildDays = 30
	cfg.Simulation.HistorySize = 3

	upstream := &fakeUpstream{}
	env := &simEnv{
		Client:     upstream,
		Resolver:   resolve.New(upstream, resolve.NewSynthesizer(42)),
		Facilities: model.BuiltinFacilities(),
	}

	srv := httptest.NewServer(newServer(env).routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeState(t *testing.T, resp *http.Response) model.SessionState {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var state model.SessionState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	return state
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/sessions", nil)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		SessionID string             `json:"session_id"`
		State     model.SessionState `json:"state"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, 10_000_000)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Sites(t *testing.T) {
	srv := newTestServer(t, 10_000_000)

	resp, err := http.Get(srv.URL + "/api/sites")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Catalog    []model.SiteRecord `json:"catalog"`
		Candidates []model.SiteRecord `json:"candidates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Catalog, 2)
	assert.Len(t, body.Candidates, 1)
	assert.Equal(t, "candidate-1", body.Candidates[0].ID)
}

func TestServer_CreateSession(t *testing.T) {
	srv := newTestServer(t, 10_000_000)

	id := createSession(t, srv)

	resp, err := http.Get(srv.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	state := decodeState(t, resp)
	assert.Equal(t, 10_000_000, state.Budget)
	assert.Equal(t, 1, state.Day)
}

func TestServer_UnknownSession(t *testing.T) {
	srv := newTestServer(t, 10_000_000)

	resp, err := http.Get(srv.URL + "/api/sessions/nope")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SelectAndBuild(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeState(t, resp)
	require.NotNil(t, state.SelectedSite)
	assert.Equal(t, "Northern Virginia", state.SelectedSite.Name)

	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, resp)

	require.Len(t, state.Installations, 1)
	assert.Equal(t, 31, state.Day)
	assert.Less(t, state.Budget, 10_000_000)
	assert.Nil(t, state.SelectedSite)
	require.NotNil(t, state.Notification)
	assert.Equal(t, model.NotificationSuccess, state.Notification.Type)
}

func TestServer_SelectUnknownSite(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "bogus"})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SelectBuiltSiteConflicts(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "1"})
	resp.Body.Close() //nolint:errcheck
	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 1})
	resp.Body.Close() //nolint:errcheck

	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "1"})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_BuildWithoutSelection(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 1})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_BuildInsufficientFunds(t *testing.T) {
	srv := newTestServer(t, 1000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "1"})
	resp.Body.Close() //nolint:errcheck

	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeState(t, resp)

	assert.Equal(t, 1000, state.Budget)
	assert.Empty(t, state.Installations)
	require.NotNil(t, state.Notification)
	assert.Equal(t, model.NotificationError, state.Notification.Type)
	assert.Contains(t, state.Notification.Message, "Insufficient funds")
}

func TestServer_BuildUnknownFacility(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 99})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_DismissNotification(t *testing.T) {
	srv := newTestServer(t, 1000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "1"})
	resp.Body.Close() //nolint:errcheck
	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 1})
	resp.Body.Close() //nolint:errcheck

	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/notifications/dismiss", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeState(t, resp)
	assert.Nil(t, state.Notification)
}

func TestServer_ClearSelection(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "2"})
	resp.Body.Close() //nolint:errcheck

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+id+"/selection", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	state := decodeState(t, resp)
	assert.Nil(t, state.SelectedSite)
}

func TestServer_Forecast(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "1"})
	resp.Body.Close() //nolint:errcheck
	resp = postJSON(t, srv.URL+"/api/sessions/"+id+"/build", map[string]int{"facility_id": 1})
	resp.Body.Close() //nolint:errcheck

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/forecast", srv.URL, id))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var proj struct {
		Points            []map[string]any `json:"points"`
		TotalContribution float64          `json:"totalContribution"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&proj))
	assert.Len(t, proj.Points, 76)
	assert.Greater(t, proj.TotalContribution, 0.0)
}

func TestServer_CandidateSelectionFetchesDetails(t *testing.T) {
	srv := newTestServer(t, 10_000_000)
	id := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+id+"/select", map[string]string{"site_id": "candidate-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeState(t, resp)

	require.NotNil(t, state.SelectedSite)
	assert.Equal(t, 2_500_000, state.SelectedSite.LandCost)
	assert.Equal(t, "Industrial", state.SelectedSite.ZoneType)
}
