package harris3d

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	ip "github.com/jhonmgb/harris3d/interest_points"
	"github.com/jhonmgb/harris3d/mesh"
)

// EncodeReport renders a detection result as indented JSON. Non-finite responses are
// written as null.
func EncodeReport(result *ip.Result, m mesh.View) ([]byte, error) {
	points := make([]any, len(result.Points))
	for i, p := range result.Points {
		ov := p.Pose.Orientation().OrientationVectorRadians()
		points[i] = map[string]any{
			"index":    p.Index,
			"response": finiteOrNil(p.Response),
			"position": vectorValue(p.Pose.Point()),
			"normal":   vectorValue(r3.Vector{X: ov.OX, Y: ov.OY, Z: ov.OZ}),
		}
	}

	cfg := result.Config
	report := map[string]any{
		"config": map[string]any{
			"num_rings":            cfg.NumRings,
			"harris_k":             cfg.HarrisK,
			"percentage_of_points": cfg.PercentageOfPoints,
			"selection_mode":       cfg.Mode.String(),
			"workers":              cfg.Workers,
		},
		"mesh": map[string]any{
			"vertices": m.VertexCount(),
			"faces":    m.FaceCount(),
			"diagonal": mesh.Diagonal(m),
		},
		"interest_points": points,
	}

	st, err := structpb.NewStruct(report)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	bytes, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return bytes, nil
}

func vectorValue(v r3.Vector) map[string]any {
	return map[string]any{"x": v.X, "y": v.Y, "z": v.Z}
}

func finiteOrNil(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
