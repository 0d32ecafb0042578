package offcanvas

import "time"

// Debug thresholds for snapshot trees.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugLog logs per-frame timings and pool counters. Only called in debug
// mode.
func (r *Renderer) debugLog(rec FrameRecord) {
	Logger().Debug("frame",
		"frame", rec.Frame,
		"nodes", rec.Nodes,
		"build", msDuration(rec.BuildMs),
		"encode", msDuration(rec.EncodeMs),
		"worker", msDuration(rec.WorkerMs),
		"round_trip", msDuration(rec.RoundTripMs),
		"pool_allocated", rec.PoolAllocated,
		"frames_allocated", r.ch.FramesAllocated())
}

// debugCheckPool warns when nodes are still out after the snapshot was
// released, which means a tree leaked.
func (r *Renderer) debugCheckPool() {
	if n := r.pool.InUse(); n != 0 {
		Logger().Warn("node pool leak", "in_use", n, "allocated", r.pool.Allocated())
	}
}

// debugCheckTree warns about unusually deep or wide snapshot trees.
func debugCheckTree(n *RenderNode, depth int) {
	if depth == debugMaxTreeDepth+1 {
		Logger().Warn("snapshot tree too deep", "depth", depth, "threshold", debugMaxTreeDepth)
	}
	if len(n.Children) > debugMaxChildCount {
		Logger().Warn("snapshot node has many children",
			"children", len(n.Children), "threshold", debugMaxChildCount)
	}
	for _, c := range n.Children {
		debugCheckTree(c, depth+1)
	}
}

func msDuration(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
