package defs

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/sii"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// ferryScale converts connection positions to map units.
const ferryScale = 256

// FerryPoint is one point of a ferry line with its heading.
type FerryPoint struct {
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"`
}

// FerryConnection links two ferry ports.
type FerryConnection struct {
	StartPort token.Token  `json:"start_port"`
	EndPort   token.Token  `json:"end_port"`
	Price     int          `json:"price"`
	Time      int          `json:"time"`
	Distance  int          `json:"distance"`
	Points    []FerryPoint `json:"points,omitempty"`

	StartX   float64 `json:"start_x"`
	StartZ   float64 `json:"start_z"`
	EndX     float64 `json:"end_x"`
	EndZ     float64 `json:"end_z"`
	HasStart bool    `json:"-"`
	HasEnd   bool    `json:"-"`
}

// AddConnectionPosition appends the point for slot index unless that
// slot is already filled.
func (c *FerryConnection) AddConnectionPosition(index int, x, z float64) {
	if len(c.Points) > index {
		return
	}

	c.Points = append(c.Points, FerryPoint{X: x / ferryScale, Z: z / ferryScale})
}

// AddRotation sets the heading of an existing point.
func (c *FerryConnection) AddRotation(index int, rot float64) {
	if index < 0 || index >= len(c.Points) {
		return
	}

	c.Points[index].Rotation = rot
}

// SetPortLocation records the world position of one of the two ports.
func (c *FerryConnection) SetPortLocation(port token.Token, x, z float64) {
	switch port {
	case c.StartPort:
		c.StartX, c.StartZ, c.HasStart = x, z, true
	case c.EndPort:
		c.EndX, c.EndZ, c.HasEnd = x, z, true
	}
}

// Connects reports whether the connection joins the two ports in either order.
func (c *FerryConnection) Connects(a, b token.Token) bool {
	return (c.StartPort == a && c.EndPort == b) || (c.StartPort == b && c.EndPort == a)
}

// FerryConnection returns the connection between two ports in either order.
func (t *Tables) FerryConnection(a, b token.Token) (*FerryConnection, bool) {
	for _, c := range t.Ferries {
		if c.Connects(a, b) {
			return c, true
		}
	}

	return nil, false
}

// SetFerryPortLocation applies a ferry port position to every connection naming it.
func (t *Tables) SetFerryPortLocation(port token.Token, x, z float64) {
	for _, c := range t.Ferries {
		c.SetPortLocation(port, x, z)
	}
}

// PruneFerryConnections drops connections with a port that never got a
// location and returns how many were removed.
func (t *Tables) PruneFerryConnections(log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}

	kept := t.Ferries[:0]
	for _, c := range t.Ferries {
		if c.HasStart && c.HasEnd {
			kept = append(kept, c)
			continue
		}

		log.Debug("ferry connection without port location",
			zap.Stringer("start", c.StartPort),
			zap.Stringer("end", c.EndPort),
		)
	}

	removed := len(t.Ferries) - len(kept)
	for i := len(kept); i < len(t.Ferries); i++ {
		t.Ferries[i] = nil
	}
	t.Ferries = kept

	return removed
}

// ferryState carries the scalars and the open connection of one file.
type ferryState struct {
	conn     *FerryConnection
	price    int
	time     int
	distance int
}

// LoadFerryConnections reads def/ferry/connection/*.sii|*.sui.
func (l *Loader) LoadFerryConnections() {
	files, ok := l.files(FerryDir, archive.HasExt(".sii", ".sui"))
	if !ok {
		return
	}

	for _, f := range files {
		var st ferryState

		for _, raw := range l.lines(f) {
			line := sii.ParseLine(raw)
			if line.Valid {
				st.apply(line)
			}

			if line.Closes && st.conn != nil {
				l.addFerry(st.finish())
			}
		}
	}
}

// apply updates the file state from one attribute line.
func (st *ferryState) apply(line sii.Line) {
	if st.conn != nil {
		idx := line.Index
		switch {
		case strings.Contains(line.Key, "connection_positions"):
			if idx < 0 {
				idx = len(st.conn.Points)
			}
			if x, z, ok := sii.ParseVector(line.Value); ok {
				st.conn.AddConnectionPosition(idx, x, z)
			}
		case strings.Contains(line.Key, "connection_directions"):
			if x, z, ok := sii.ParseVector(line.Value); ok {
				st.conn.AddRotation(idx, math.Atan2(z, x))
			}
		}
	}

	if line.Key == "ferry_connection" {
		st.conn = &FerryConnection{
			StartPort: token.Part(line.Value, 1),
			EndPort:   token.Part(line.Value, 2),
		}
	}

	if strings.Contains(line.Key, "price") {
		st.price = intOrZero(line.Value)
	}
	if strings.Contains(line.Key, "time") {
		st.time = intOrZero(line.Value)
	}
	if strings.Contains(line.Key, "distance") {
		st.distance = intOrZero(line.Value)
	}
}

// finish returns the finished connection. The open accumulator keeps its
// points so later records in the file continue from them.
func (st *ferryState) finish() *FerryConnection {
	c := &FerryConnection{
		StartPort: st.conn.StartPort,
		EndPort:   st.conn.EndPort,
		Price:     st.price,
		Time:      st.time,
		Distance:  st.distance,
		Points:    append([]FerryPoint(nil), st.conn.Points...),
	}

	return c
}

// addFerry stores a connection unless its unordered port pair is known.
func (l *Loader) addFerry(c *FerryConnection) {
	if c.StartPort == 0 || c.EndPort == 0 {
		return
	}
	if _, dup := l.t.FerryConnection(c.StartPort, c.EndPort); dup {
		return
	}

	l.t.Ferries = append(l.t.Ferries, c)
}

func intOrZero(s string) int {
	v, _ := sii.ParseInt(s)
	return v
}
