package clustering

import (
	"maps"
	"sort"

	"github.com/dbenamy/hack-retro/internal/geometry"
)

// ClusterID identifies a cluster locally. IDs are allocated in increasing
// order and are not shared with other clients until the partition is sent.
type ClusterID int

// NeutralColor is the border color of cards that belong to no cluster.
const NeutralColor = "black"

// Palette is cycled through in cluster id order.
var Palette = []string{"blue", "red", "dark green", "yellow", "purple", "orange"}

// Engine assigns cards to clusters based on on-screen overlap. It is not
// safe for concurrent use.
type Engine struct {
	positions map[string]geometry.Point
	sizes     map[string]geometry.Size
	clusterOf map[string]ClusterID
	nextID    ClusterID
}

// NewEngine returns an engine with no tracked cards.
func NewEngine() *Engine {
	return &Engine{
		positions: make(map[string]geometry.Point),
		sizes:     make(map[string]geometry.Size),
		clusterOf: make(map[string]ClusterID),
	}
}

// Track registers a card without running clustering for it.
func (e *Engine) Track(key string, pos geometry.Point, size geometry.Size) {
	e.positions[key] = pos
	e.sizes[key] = size
}

// Tracked reports whether key is a known card.
func (e *Engine) Tracked(key string) bool {
	_, ok := e.positions[key]
	return ok
}

// Position returns the last known position of key.
func (e *Engine) Position(key string) (geometry.Point, bool) {
	p, ok := e.positions[key]
	return p, ok
}

// ClusterOf returns the cluster key belongs to, if any.
func (e *Engine) ClusterOf(key string) (ClusterID, bool) {
	id, ok := e.clusterOf[key]
	return id, ok
}

// Keys returns every tracked card in ascending order.
func (e *Engine) Keys() []string {
	keys := make([]string, 0, len(e.positions))
	for k := range e.positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OnTopicMoved places key at pos and recomputes its cluster membership.
// The first overlapping card in ascending key order decides the cluster.
// It returns the border color of every tracked card, or false when key
// is not tracked.
func (e *Engine) OnTopicMoved(key string, pos geometry.Point) (map[string]string, bool) {
	if !e.Tracked(key) {
		return nil, false
	}
	e.positions[key] = pos

	rect := e.rect(key)
	hit := ""
	for _, other := range e.Keys() {
		if other == key {
			continue
		}
		if geometry.Overlaps(rect, e.rect(other)) {
			hit = other
			break
		}
	}

	if hit != "" {
		if id, ok := e.clusterOf[hit]; ok {
			e.clusterOf[key] = id
		} else {
			e.clusterOf[key] = e.nextID
			e.clusterOf[hit] = e.nextID
			e.nextID++
		}
	} else {
		delete(e.clusterOf, key)
	}

	e.collect()
	return e.Colors(), true
}

// collect unassigns the members of clusters with fewer than two members.
func (e *Engine) collect() {
	for id, members := range e.Clusters() {
		if len(members) >= 2 {
			continue
		}
		for _, k := range members {
			if e.clusterOf[k] == id {
				delete(e.clusterOf, k)
			}
		}
	}
}

// Clusters returns the live clusters with their members sorted.
func (e *Engine) Clusters() map[ClusterID][]string {
	out := make(map[ClusterID][]string)
	for _, k := range e.Keys() {
		if id, ok := e.clusterOf[k]; ok {
			out[id] = append(out[id], k)
		}
	}
	return out
}

// Colors assigns palette colors to live clusters in ascending id order and
// returns the resulting border color of every tracked card.
func (e *Engine) Colors() map[string]string {
	clusters := e.Clusters()
	ids := sortedIDs(clusters)

	byCluster := make(map[ClusterID]string, len(ids))
	for i, id := range ids {
		byCluster[id] = Palette[i%len(Palette)]
	}

	colors := make(map[string]string, len(e.positions))
	for k := range e.positions {
		if id, ok := e.clusterOf[k]; ok {
			colors[k] = byCluster[id]
		} else {
			colors[k] = NeutralColor
		}
	}
	return colors
}

// Finalize gives every unassigned card its own cluster so that all cards
// are partitioned, and returns the partition.
func (e *Engine) Finalize() map[ClusterID][]string {
	for _, k := range e.Keys() {
		if _, ok := e.clusterOf[k]; !ok {
			e.clusterOf[k] = e.nextID
			e.nextID++
		}
	}
	return e.Clusters()
}

// Partition returns the clusters a Finalize would produce, ordered by id.
// The engine itself is not finalized.
func (e *Engine) Partition() [][]string {
	clusters := e.clone().Finalize()
	out := make([][]string, 0, len(clusters))
	for _, id := range sortedIDs(clusters) {
		out = append(out, clusters[id])
	}
	return out
}

func (e *Engine) clone() *Engine {
	return &Engine{
		positions: maps.Clone(e.positions),
		sizes:     maps.Clone(e.sizes),
		clusterOf: maps.Clone(e.clusterOf),
		nextID:    e.nextID,
	}
}

func (e *Engine) rect(key string) geometry.Rect {
	return geometry.RectAt(e.positions[key], e.sizes[key])
}

func sortedIDs(clusters map[ClusterID][]string) []ClusterID {
	ids := make([]ClusterID, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
