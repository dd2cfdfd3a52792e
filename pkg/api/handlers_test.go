package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusproject/clus/internal/winapi"
	"github.com/clusproject/clus/pkg/cluster"
)

func fakeOpener(fake *winapi.Fake) SessionOpener {
	return func() (*cluster.Session, error) {
		return cluster.OpenWith(fake, "")
	}
}

func newTestCluster() *winapi.Fake {
	fake := winapi.NewFake()
	fake.ClusterName = "PRODCLUS"
	fake.AddNode("node1", winapi.NodeStateUp)
	fake.AddNode("node2", winapi.NodeStatePaused)
	fake.AddResource("ip-addr", winapi.ResourceStateOnline, "node1")
	fake.AddGroup("sql", winapi.GroupStateOnline, "node1")
	return fake
}

func doRequest(t *testing.T, fake *winapi.Fake, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	router := NewRouter(fakeOpener(fake))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return rec, resp
}

func TestGetCluster(t *testing.T) {
	fake := newTestCluster()
	rec, resp := doRequest(t, fake, http.MethodGet, "/cluster", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"name": "PRODCLUS"}, resp.Data)

	// the per-request session was closed
	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestListNodes(t *testing.T) {
	fake := newTestCluster()
	rec, resp := doRequest(t, fake, http.MethodGet, "/nodes", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	nodes, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, nodes, 2)
	first := nodes[0].(map[string]any)
	assert.Equal(t, "node1", first["name"])
	assert.Equal(t, "Up", first["state"])
	second := nodes[1].(map[string]any)
	assert.Equal(t, "Paused", second["state"])

	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestGetNode(t *testing.T) {
	t.Run("known node", func(t *testing.T) {
		fake := newTestCluster()
		rec, resp := doRequest(t, fake, http.MethodGet, "/nodes/node1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"name": "node1", "state": "Up"}, resp.Data)
	})

	t.Run("unknown node maps to 404", func(t *testing.T) {
		fake := newTestCluster()
		rec, resp := doRequest(t, fake, http.MethodGet, "/nodes/ghost", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Contains(t, *resp.Error, "ghost")
	})
}

func TestNodeActions(t *testing.T) {
	fake := newTestCluster()

	rec, resp := doRequest(t, fake, http.MethodPost, "/nodes/node1/pause", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, fake.Nodes[0].PauseCalls)

	rec, resp = doRequest(t, fake, http.MethodPost, "/nodes/node1/resume", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, fake.Nodes[0].ResumeCalls)

	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestResourceEndpoints(t *testing.T) {
	fake := newTestCluster()

	rec, resp := doRequest(t, fake, http.MethodGet, "/resources", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	resources := resp.Data.([]any)
	require.Len(t, resources, 1)
	res := resources[0].(map[string]any)
	assert.Equal(t, "ip-addr", res["name"])
	assert.Equal(t, "Online", res["state"])
	assert.Equal(t, "node1", res["owner"])

	rec, _ = doRequest(t, fake, http.MethodPost, "/resources/ip-addr/offline", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, fake, http.MethodGet, "/resources/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestGroupEndpoints(t *testing.T) {
	fake := newTestCluster()

	rec, resp := doRequest(t, fake, http.MethodGet, "/groups/sql", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"name": "sql", "state": "Online", "owner": "node1"}, resp.Data)

	rec, _ = doRequest(t, fake, http.MethodPost, "/groups/sql/offline", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestMoveGroup(t *testing.T) {
	t.Run("requests the move", func(t *testing.T) {
		fake := newTestCluster()
		rec, resp := doRequest(t, fake, http.MethodPost, "/groups/sql/move", `{"node":"node2"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, []string{"node2"}, fake.Groups[0].MovedTo)
		assert.Equal(t, 0, fake.OpenHandleCount())
	})

	t.Run("rejects a missing body", func(t *testing.T) {
		fake := newTestCluster()
		rec, resp := doRequest(t, fake, http.MethodPost, "/groups/sql/move", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("maps an unknown destination to 404", func(t *testing.T) {
		fake := newTestCluster()
		rec, _ := doRequest(t, fake, http.MethodPost, "/groups/sql/move", `{"node":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 0, fake.OpenHandleCount())
	})
}

func TestListCSV(t *testing.T) {
	fake := newTestCluster()
	csv := fake.AddResource("Volume1", winapi.ResourceStateOnline, "node1")
	csv.SharedVolume = true
	csv.VolumeName = `\\?\Volume{11111111-2222-3333-4444-555555555555}\`
	fake.Space[`C:\ClusterStorage\Volume1`] = winapi.SpaceInfo{Free: 5 << 30, Total: 50 << 30}

	rec, resp := doRequest(t, fake, http.MethodGet, "/csv", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	vols := resp.Data.([]any)
	require.Len(t, vols, 1)
	vol := vols[0].(map[string]any)
	assert.Equal(t, "Volume1", vol["friendly_name"])
	assert.Equal(t, `C:\ClusterStorage\Volume1`, vol["mount_point"])
	assert.Equal(t, "Online", vol["state"])

	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestHealth(t *testing.T) {
	t.Run("liveness needs no cluster", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.FailOps["OpenCluster"] = winapi.ErrorGenFailure

		rec, resp := doRequest(t, fake, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
	})

	t.Run("readiness proves cluster reachability", func(t *testing.T) {
		fake := newTestCluster()
		rec, resp := doRequest(t, fake, http.MethodGet, "/health/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
	})

	t.Run("readiness reports an unreachable cluster", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.FailOps["OpenCluster"] = winapi.ErrorGenFailure

		rec, resp := doRequest(t, fake, http.MethodGet, "/health/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.False(t, resp.Success)
	})
}

func TestStatusMapping(t *testing.T) {
	t.Run("unsupported platform maps to 501", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.FailOps["OpenCluster"] = winapi.ErrorCallNotImplemented

		rec, resp := doRequest(t, fake, http.MethodGet, "/nodes", "")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("connection failure maps to 503", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.FailOps["OpenCluster"] = winapi.ErrorGenFailure

		rec, _ := doRequest(t, fake, http.MethodGet, "/cluster", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("native failure maps to 500", func(t *testing.T) {
		fake := newTestCluster()
		fake.FailOps["GetClusterInformation"] = winapi.ErrorGenFailure

		rec, _ := doRequest(t, fake, http.MethodGet, "/cluster", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestJSONEncodeFailureKeepsResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, OKResponse(make(chan int)))

	// the status line went out before encoding failed; no stray body follows
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
