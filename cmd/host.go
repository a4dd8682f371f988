package main

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialtrees/cubemap"
	"github.com/aukilabs/spatialtrees/featureflag"
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
	"github.com/aukilabs/spatialtrees/planet"
	"github.com/aukilabs/spatialtrees/secondary"
	"github.com/google/uuid"
)

// maxPlanetDepth keeps face cells well above float64 precision.
const maxPlanetDepth = 24

// orbitTilt is the inclination of the viewer orbit, in radians.
const orbitTilt = 0.4

// tile is the payload attached to every planet leaf.
type tile struct {
	ID     uuid.UUID
	Node   planet.FaceHandle
	Depth  int
	Center geometry.Vector3
}

type host struct {
	mutex     sync.RWMutex
	planet    *planet.Tree
	tiles     secondary.Store[planet.FaceHandle, tile]
	flags     featureflag.FeatureFlag
	orbit     float64
	period    time.Duration
	lodFactor float64
	frame     int
	elapsed   time.Duration
	viewer    geometry.Vector3
	ready     bool
}

func newHost(conf config, flags featureflag.FeatureFlag) (*host, error) {
	tree, err := planet.New(float64(conf.Radius), conf.MaxDepth)
	if err != nil {
		return nil, err
	}

	tiles, err := secondary.NewLRUStore[planet.FaceHandle, tile](conf.PayloadCacheSize)
	if err != nil {
		return nil, errors.New("creating tile store failed").
			WithTag("size", conf.PayloadCacheSize).
			Wrap(err)
	}

	h := &host{
		planet:    tree,
		tiles:     tiles,
		flags:     flags,
		orbit:     float64(conf.Radius + conf.Altitude),
		period:    conf.OrbitPeriod,
		lodFactor: float64(conf.LODFactor) / 100,
	}

	for _, root := range tree.Roots() {
		h.attachTile(root)
	}
	return h, nil
}

// Run refines the planet every frame until ctx is done or a frame fails.
func (h *host) Run(ctx context.Context, frameDuration time.Duration) error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logs.WithTag("frames", h.frameCount()).Info("stopping planet refinement")
			return nil

		case <-ticker.C:
			if err := h.Step(frameDuration); err != nil {
				return errors.New("planet refinement stopped").
					WithTag("frames", h.frameCount()).
					Wrap(err)
			}
		}
	}
}

// Step moves the viewer along its orbit and refines the planet around it.
func (h *host) Step(delta time.Duration) error {
	start := time.Now()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.frame++
	h.elapsed += delta
	h.viewer = h.orbitPosition()

	events := h.planet.RefineAround(h.viewer, h.lodFactor)
	h.applyEvents(events)

	var err error
	h.flags.IfSet(featureflag.FlagValidateInvariants, func() {
		err = h.planet.Validate()
	})
	if err != nil {
		return errors.New("planet tree is corrupted").
			WithTag("frame", h.frame).
			Wrap(err)
	}

	h.flags.IfSet(featureflag.FlagPrintTree, func() {
		logs.WithTag("frame", h.frame).
			WithTag("tree", h.planet.Print()).
			Debug("planet tree")
	})

	h.ready = true
	instrumentFrame(time.Since(start), h.planet.Len(), h.tiles.Len())
	return nil
}

func (h *host) orbitPosition() geometry.Vector3 {
	angle := 2 * math.Pi * float64(h.elapsed) / float64(h.period)
	return geometry.Vector3{
		X: math.Cos(angle),
		Y: math.Sin(angle) * math.Cos(orbitTilt),
		Z: math.Sin(angle) * math.Sin(orbitTilt),
	}.Mul(h.orbit)
}

// applyEvents keeps one tile per leaf: removed nodes and nodes that became
// internal lose their tile, new leaves get one.
func (h *host) applyEvents(events []planet.Event) {
	for _, e := range events {
		instrumentRefineEvent(e.Face, e.Kind)

		switch e.Kind {
		case ntree.Grown:
			h.tiles.Delete(e.Subject())
			for _, c := range e.CreatedNodes() {
				h.attachTile(c)
			}

		case ntree.Shrunk:
			secondary.Purge(h.tiles, e.RemovedNodes())
			h.attachTile(e.Subject())
		}
	}
}

func (h *host) attachTile(fh planet.FaceHandle) {
	if h.flags.IsSet(featureflag.FlagDisablePayloads) {
		return
	}

	n, err := h.planet.Node(fh)
	if err != nil || !n.IsLeaf() {
		return
	}

	center, err := h.planet.Center(fh)
	if err != nil {
		logs.Warn(err)
		return
	}

	h.tiles.Set(fh, tile{
		ID:     uuid.New(),
		Node:   fh,
		Depth:  n.Depth,
		Center: center,
	})
}

func (h *host) frameCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.frame
}

func (h *host) Ready() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.ready
}

type faceStats struct {
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"max_depth"`
}

type stats struct {
	Frame        int                  `json:"frame"`
	Viewer       [3]float64           `json:"viewer"`
	Nodes        int                  `json:"nodes"`
	Leaves       int                  `json:"leaves"`
	Seams        int                  `json:"seams"`
	Tiles        int                  `json:"tiles"`
	Faces        map[string]faceStats `json:"faces"`
	FeatureFlags []string             `json:"feature_flags"`
}

// Stats returns a snapshot of the planet tree. Seams counts the leaves
// bordering at least one coarser leaf.
func (h *host) Stats() stats {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	s := stats{
		Frame:        h.frame,
		Viewer:       [3]float64{h.viewer.X, h.viewer.Y, h.viewer.Z},
		Nodes:        h.planet.Len(),
		Tiles:        h.tiles.Len(),
		Faces:        make(map[string]faceStats, cubemap.FaceCount),
		FeatureFlags: h.flags.List(),
	}

	for _, f := range cubemap.Faces {
		face, _ := h.planet.Face(f)
		s.Faces[f.String()] = faceStats{Nodes: face.Len()}
	}

	for leaf := range h.planet.Leaves() {
		n, err := h.planet.Node(leaf)
		if err != nil {
			continue
		}

		fs := s.Faces[leaf.Face.String()]
		fs.Leaves++
		fs.MaxDepth = max(fs.MaxDepth, n.Depth)
		s.Faces[leaf.Face.String()] = fs
		s.Leaves++

		depths, err := h.planet.NeighborDepths(leaf)
		if err != nil {
			continue
		}
		for _, d := range depths {
			if d > 0 {
				s.Seams++
				break
			}
		}
	}
	return s
}
