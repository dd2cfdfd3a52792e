package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
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

	csv := fake.AddResource("Volume1", winapi.ResourceStateOnline, "node1")
	csv.SharedVolume = true
	csv.VolumeName = `\\?\Volume{11111111-2222-3333-4444-555555555555}\`
	mount := `C:\ClusterStorage\Volume1`
	fake.CSVMounts[mount] = csv.VolumeName
	fake.Space[mount] = winapi.SpaceInfo{Free: 10 << 30, Total: 100 << 30}
	return fake
}

func gather(t *testing.T, c *Collector) map[string][]*dto.Metric {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string][]*dto.Metric, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf.GetMetric()
	}
	return byName
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestCollectorScrape(t *testing.T) {
	fake := newTestCluster()
	c := NewCollector(fakeOpener(fake))

	byName := gather(t, c)

	require.Len(t, byName["clus_up"], 1)
	assert.Equal(t, 1.0, byName["clus_up"][0].GetGauge().GetValue())

	nodes := byName["clus_node_state"]
	require.Len(t, nodes, 2)
	states := map[string]string{}
	for _, m := range nodes {
		l := labels(m)
		states[l["node"]] = l["state"]
		assert.Equal(t, 1.0, m.GetGauge().GetValue())
	}
	assert.Equal(t, map[string]string{"node1": "Up", "node2": "Paused"}, states)

	resources := byName["clus_resource_state"]
	require.Len(t, resources, 2)
	for _, m := range resources {
		l := labels(m)
		assert.Equal(t, "Online", l["state"])
		assert.Equal(t, "node1", l["owner"])
	}

	groups := byName["clus_group_state"]
	require.Len(t, groups, 1)
	assert.Equal(t, "sql", labels(groups[0])["group"])
	assert.Equal(t, "Online", labels(groups[0])["state"])

	maint := byName["clus_csv_in_maintenance"]
	require.Len(t, maint, 1)
	assert.Equal(t, "Volume1", labels(maint[0])["volume"])
	assert.Equal(t, 0.0, maint[0].GetGauge().GetValue())

	free := byName["clus_csv_free_bytes"]
	require.Len(t, free, 1)
	assert.Equal(t, float64(10<<30), free[0].GetGauge().GetValue())

	errs := byName["clus_scrape_errors_total"]
	require.Len(t, errs, 1)
	assert.Equal(t, 0.0, errs[0].GetCounter().GetValue())

	// every per-scrape handle was released
	assert.Equal(t, 0, fake.OpenHandleCount())
}

func TestCollectorScrapeOpenFailure(t *testing.T) {
	fake := newTestCluster()
	fake.FailOps["OpenCluster"] = winapi.ErrorGenFailure
	c := NewCollector(fakeOpener(fake))

	byName := gather(t, c)

	require.Len(t, byName["clus_up"], 1)
	assert.Equal(t, 0.0, byName["clus_up"][0].GetGauge().GetValue())
	assert.Empty(t, byName["clus_node_state"])

	errs := byName["clus_scrape_errors_total"]
	require.Len(t, errs, 1)
	assert.Equal(t, 1.0, errs[0].GetCounter().GetValue())
}

func TestCollectorScrapePartialFailure(t *testing.T) {
	fake := newTestCluster()
	fake.FailOps["ClusterOpenEnum"] = winapi.ErrorGenFailure
	c := NewCollector(fakeOpener(fake))

	byName := gather(t, c)

	// session opened, but the node walk failed
	assert.Equal(t, 1.0, byName["clus_up"][0].GetGauge().GetValue())
	assert.Empty(t, byName["clus_node_state"])
	assert.Equal(t, 1.0, byName["clus_scrape_errors_total"][0].GetCounter().GetValue())
	assert.Equal(t, 0, fake.OpenHandleCount())
}
