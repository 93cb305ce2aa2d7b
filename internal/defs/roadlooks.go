package defs

import (
	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/roadlook"
	"github.com/woozymasta/scs-route-tool/internal/sii"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// LoadRoadLooks reads def/world/road* road look definitions.
func (l *Loader) LoadRoadLooks() {
	files, ok := l.files(WorldDir, archive.HasPrefix("road"))
	if !ok {
		return
	}

	for _, f := range files {
		var look *roadlook.RoadLook

		for _, raw := range l.lines(f) {
			line := sii.ParseLine(raw)
			if line.Is("road_look") {
				look = roadlook.New(token.Part(line.Value, 1))
			}
			if look != nil && line.Valid {
				applyRoadLook(look, line)
			}

			if !line.Closes || look == nil {
				continue
			}

			switch _, dup := l.t.RoadLooks[look.Token]; {
			case look.Token == 0:
			case dup:
				l.log.Debug("duplicate road look", zap.Stringer("token", look.Token), zap.String("file", f))
			default:
				l.t.RoadLooks[look.Token] = look
			}
			look = nil
		}
	}
}

// applyRoadLook updates the look from one attribute line.
func applyRoadLook(look *roadlook.RoadLook, line sii.Line) {
	float := func(dst *float64) {
		if v, ok := sii.ParseFloat(line.Value); ok {
			*dst = v
		}
	}

	switch line.Key {
	case "name":
		look.Name = sii.QuotedOrTrimmed(line.Value)
	case "lanes_left":
		look.AddLaneLeft(line.Value)
	case "lanes_right":
		look.AddLaneRight(line.Value)
	case "lane_offsets_left":
		look.LaneOffsetsLeft = append(look.LaneOffsetsLeft, line.Value)
	case "lane_offsets_right":
		look.LaneOffsetsRight = append(look.LaneOffsetsRight, line.Value)
	case "road_offset":
		float(&look.Offset)
	case "shoulder_space_left":
		float(&look.ShoulderSpaceLeft)
	case "shoulder_space_right":
		float(&look.ShoulderSpaceRight)
	case "shoulder_size_left":
		float(&look.ShoulderSizeLeft)
	case "shoulder_size_right":
		float(&look.ShoulderSizeRight)
	case "road_size_left":
		float(&look.RoadSizeLeft)
	case "road_size_right":
		float(&look.RoadSizeRight)
	}
}
