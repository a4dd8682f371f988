package ntree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	treeKindLabel  = "tree_kind"
	operationLabel = "operation"
	errTypeLabel   = "error_type"
)

var (
	nodeCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spatialtree_node_count",
		Help: "The number of live tree nodes.",
	}, []string{treeKindLabel})

	subdivisionCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialtree_subdivisions_total",
		Help: "The total number of subdivided nodes.",
	}, []string{treeKindLabel})

	collapseCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialtree_collapses_total",
		Help: "The total number of collapsed or pruned nodes.",
	}, []string{treeKindLabel})

	removedNodeCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialtree_removed_nodes_total",
		Help: "The total number of nodes destroyed by collapses, prunes and teardowns.",
	}, []string{treeKindLabel})

	operationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialtree_operation_errors",
		Help: "The errors returned by tree operations.",
	}, []string{
		treeKindLabel,
		operationLabel,
		errTypeLabel,
	})
)

// treeMetrics holds the collectors of one tree kind, resolved once so the hot
// paths do not build label maps.
type treeMetrics struct {
	nodes        prometheus.Gauge
	subdivisions prometheus.Counter
	collapses    prometheus.Counter
	removed      prometheus.Counter
}

func newTreeMetrics(kind string) treeMetrics {
	labels := prometheus.Labels{treeKindLabel: kind}

	return treeMetrics{
		nodes:        nodeCount.With(labels),
		subdivisions: subdivisionCount.With(labels),
		collapses:    collapseCount.With(labels),
		removed:      removedNodeCount.With(labels),
	}
}

func (m treeMetrics) instrumentSubdivide(created int) {
	m.subdivisions.Inc()
	m.nodes.Add(float64(created))
}

func (m treeMetrics) instrumentCollapse(removed int) {
	m.collapses.Inc()
	m.instrumentRemove(removed)
}

func (m treeMetrics) instrumentRemove(removed int) {
	m.removed.Add(float64(removed))
	m.nodes.Sub(float64(removed))
}

func instrumentOperationError(kind string, op string, err error) {
	operationErrors.
		With(prometheus.Labels{
			treeKindLabel:  kind,
			operationLabel: op,
			errTypeLabel:   errors.Type(err),
		}).
		Inc()
}
