// Package streetprofile measures street canyons: it samples each street
// centerline at regular intervals, casts perpendicular probes on both sides
// and derives width, openness and height statistics from where the probes
// meet building footprints.
package streetprofile

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/urbanform/internal/planar"
)

// Tick is a sample point on a street with the unit normal along which its
// probes are cast. A zero Normal marks a degenerate street whose probes
// never hit.
type Tick struct {
	Origin planar.Vec
	Normal planar.Vec
}

// Ticks samples line at the start, every distance of arc length while short
// of the end, and at the end. The normal at each tick is perpendicular to
// the chord from the previous sample (from the first to the second sample
// at the start).
func Ticks(line *geom.LineString, distance float64) []Tick {
	pts := planar.LineVertices(line)
	if len(pts) == 0 {
		return nil
	}
	length := line.Length()
	if length == 0 {
		return []Tick{{Origin: pts[0]}}
	}
	if distance <= 0 {
		distance = length
	}

	var samples []planar.Vec
	for i := 0; float64(i)*distance < length; i++ {
		samples = append(samples, planar.Interpolate(pts, float64(i)*distance))
	}
	samples = append(samples, pts[len(pts)-1])

	ticks := make([]Tick, len(samples))
	for i, p := range samples {
		var tangent planar.Vec
		if i == 0 {
			tangent = samples[1].Sub(samples[0])
		} else {
			tangent = p.Sub(samples[i-1])
		}
		ticks[i] = Tick{Origin: p, Normal: tangent.Unit().Perp()}
	}
	return ticks
}
