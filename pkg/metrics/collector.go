// Package metrics exposes failover cluster state as Prometheus metrics.
//
// The collector opens a short-lived cluster session on every scrape and
// walks nodes, resources, groups and shared volumes. Scrape failures are
// counted and surfaced through clus_up instead of failing the whole scrape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clusproject/clus/internal/logger"
	"github.com/clusproject/clus/pkg/cluster"
)

// SessionOpener opens a cluster session for one scrape.
type SessionOpener func() (*cluster.Session, error)

// Collector implements prometheus.Collector over a failover cluster.
type Collector struct {
	open SessionOpener

	up           *prometheus.Desc
	nodeState    *prometheus.Desc
	resState     *prometheus.Desc
	groupState   *prometheus.Desc
	csvMaint     *prometheus.Desc
	csvFree      *prometheus.Desc
	csvTotal     *prometheus.Desc
	scrapeErrors prometheus.Counter
}

// NewCollector creates a collector that walks a fresh session per scrape.
func NewCollector(open SessionOpener) *Collector {
	return &Collector{
		open: open,
		up: prometheus.NewDesc(
			"clus_up",
			"Whether the last scrape could open a cluster session",
			nil, nil,
		),
		nodeState: prometheus.NewDesc(
			"clus_node_state",
			"Cluster node state (one series per node, value is always 1)",
			[]string{"node", "state"}, nil,
		),
		resState: prometheus.NewDesc(
			"clus_resource_state",
			"Cluster resource state (one series per resource, value is always 1)",
			[]string{"resource", "state", "owner"}, nil,
		),
		groupState: prometheus.NewDesc(
			"clus_group_state",
			"Cluster group state (one series per group, value is always 1)",
			[]string{"group", "state", "owner"}, nil,
		),
		csvMaint: prometheus.NewDesc(
			"clus_csv_in_maintenance",
			"Whether the shared volume is in maintenance mode",
			[]string{"volume"}, nil,
		),
		csvFree: prometheus.NewDesc(
			"clus_csv_free_bytes",
			"Free bytes on the shared volume",
			[]string{"volume"}, nil,
		),
		csvTotal: prometheus.NewDesc(
			"clus_csv_total_bytes",
			"Total bytes on the shared volume",
			[]string{"volume"}, nil,
		),
		scrapeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clus_scrape_errors_total",
			Help: "Total number of scrapes that failed partway",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.nodeState
	ch <- c.resState
	ch <- c.groupState
	ch <- c.csvMaint
	ch <- c.csvFree
	ch <- c.csvTotal
	c.scrapeErrors.Describe(ch)
}

// Collect implements prometheus.Collector. The scrape runs on the caller's
// goroutine; the native calls block there, which is what Prometheus expects
// of a collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	defer c.scrapeErrors.Collect(ch)

	s, err := c.open()
	if err != nil {
		logger.Warn("metrics scrape could not open session", logger.KeyComponent, "metrics", logger.KeyError, err)
		c.scrapeErrors.Inc()
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	defer s.Close()

	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)

	if err := c.collectNodes(ch, s); err != nil {
		c.scrapeFailed(err)
		return
	}
	if err := c.collectResources(ch, s); err != nil {
		c.scrapeFailed(err)
		return
	}
	if err := c.collectGroups(ch, s); err != nil {
		c.scrapeFailed(err)
		return
	}
	if err := c.collectCSV(ch, s); err != nil {
		c.scrapeFailed(err)
	}
}

func (c *Collector) scrapeFailed(err error) {
	logger.Warn("metrics scrape failed", logger.KeyComponent, "metrics", logger.KeyError, err)
	c.scrapeErrors.Inc()
}

func (c *Collector) collectNodes(ch chan<- prometheus.Metric, s *cluster.Session) error {
	nodes, err := s.Nodes()
	if err != nil {
		return err
	}
	defer closeAll(nodes)

	for _, n := range nodes {
		state, err := n.State()
		if err != nil {
			return err
		}
		ch <- prometheus.MustNewConstMetric(c.nodeState, prometheus.GaugeValue, 1,
			n.Name(), state.String())
	}
	return nil
}

func (c *Collector) collectResources(ch chan<- prometheus.Metric, s *cluster.Session) error {
	resources, err := s.Resources()
	if err != nil {
		return err
	}
	defer closeAll(resources)

	for _, res := range resources {
		state, owner, err := res.State()
		if err != nil {
			return err
		}
		ch <- prometheus.MustNewConstMetric(c.resState, prometheus.GaugeValue, 1,
			res.Name(), state.String(), owner)
	}
	return nil
}

func (c *Collector) collectGroups(ch chan<- prometheus.Metric, s *cluster.Session) error {
	groups, err := s.Groups()
	if err != nil {
		return err
	}
	defer closeAll(groups)

	for _, g := range groups {
		state, owner, err := g.State()
		if err != nil {
			return err
		}
		ch <- prometheus.MustNewConstMetric(c.groupState, prometheus.GaugeValue, 1,
			g.Name(), state.String(), owner)
	}
	return nil
}

func (c *Collector) collectCSV(ch chan<- prometheus.Metric, s *cluster.Session) error {
	infos, err := s.CSVInfo()
	if err != nil {
		return err
	}

	for _, info := range infos {
		maint := 0.0
		if info.InMaintenance {
			maint = 1.0
		}
		ch <- prometheus.MustNewConstMetric(c.csvMaint, prometheus.GaugeValue, maint, info.FriendlyName)
		ch <- prometheus.MustNewConstMetric(c.csvFree, prometheus.GaugeValue, float64(info.FreeBytes), info.FriendlyName)
		ch <- prometheus.MustNewConstMetric(c.csvTotal, prometheus.GaugeValue, float64(info.TotalBytes), info.FriendlyName)
	}
	return nil
}

func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}

var _ prometheus.Collector = (*Collector)(nil)
