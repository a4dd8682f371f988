package main

import (
	"time"

	"github.com/aukilabs/spatialtrees/cubemap"
	"github.com/aukilabs/spatialtrees/ntree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	frameTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planetlod_frame_duration_seconds",
		Help:    "The time spent refining the planet tree each frame.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	planetNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planetlod_planet_nodes",
		Help: "The number of live planet tree nodes.",
	})

	tileCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planetlod_tiles",
		Help: "The number of tile payloads held in the cache.",
	})

	refineEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planetlod_refine_events_total",
		Help: "The structural changes made to the planet tree.",
	}, []string{
		"face",
		"kind",
	})
)

func instrumentFrame(d time.Duration, nodes, tiles int) {
	frameTime.Observe(d.Seconds())
	planetNodes.Set(float64(nodes))
	tileCount.Set(float64(tiles))
}

func instrumentRefineEvent(f cubemap.Face, kind ntree.EventKind) {
	refineEvents.
		With(prometheus.Labels{
			"face": f.String(),
			"kind": kind.String(),
		}).
		Inc()
}
