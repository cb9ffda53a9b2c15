package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterServerHandler(t *testing.T) {
	reg, _ := testRegistry(t, time.Minute)

	body := `{"name":"eu-1","address":"host:7373","maxPlayers":2,"arena":"courtyard"}`
	req := httptest.NewRequest(http.MethodPost, "/servers/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	RegisterServer(reg)(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp registerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)

	list := reg.List("")
	require.Len(t, list, 1)
	assert.Equal(t, "courtyard", list[0].Arena)
}

func TestRegisterServerRejectsMissingFields(t *testing.T) {
	reg, _ := testRegistry(t, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/servers/register", strings.NewReader(`{"name":"eu-1"}`))
	rec := httptest.NewRecorder()
	RegisterServer(reg)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListServersFiltersByArenaQuery(t *testing.T) {
	reg, _ := testRegistry(t, time.Minute)
	reg.Register(ServerInfo{Name: "a", Address: "h:1", Arena: "courtyard"})
	reg.Register(ServerInfo{Name: "b", Address: "h:2", Arena: "rooftop"})

	req := httptest.NewRequest(http.MethodGet, "/servers?arena=rooftop", nil)
	rec := httptest.NewRecorder()
	ListServers(reg)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var servers []ServerInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&servers))
	require.Len(t, servers, 1)
	assert.Equal(t, "rooftop", servers[0].Arena)
}

func TestHeartbeatHandlerUnknownServer(t *testing.T) {
	reg, _ := testRegistry(t, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/servers/heartbeat", strings.NewReader(`{"id":"nope","players":1}`))
	rec := httptest.NewRecorder()
	Heartbeat(reg)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeartbeatHandlerRefreshes(t *testing.T) {
	reg, _ := testRegistry(t, time.Minute)
	id := reg.Register(ServerInfo{Name: "a", Address: "h:1"})

	body := `{"id":"` + id + `","players":2}`
	req := httptest.NewRequest(http.MethodPost, "/servers/heartbeat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Heartbeat(reg)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, reg.List("")[0].Players)
}
