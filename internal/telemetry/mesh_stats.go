package telemetry

import (
	"context"

	"github.com/petasbytes/go-meshedit/internal/metrics"
)

// EmitMeshStats records the element counts and bounds of a mesh under the
// current run.
func EmitMeshStats(ctx context.Context, stage string, s metrics.Stats) {
	if !ObserveEnabled() {
		return
	}
	runID, _ := RunIDFromContext(ctx)
	Emit("mesh_stats", map[string]any{
		"run_id":   runID,
		"stage":    stage,
		"vertices": s.Vertices,
		"faces":    s.Faces,
		"min":      s.Min[:],
		"max":      s.Max[:],
	})
}
