package physics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/swingby/internal/dynamo"
)

// Body is a primary that a probe can swing by.
type Body struct {
	Name   string
	Mass   float64 // kg
	Radius float64 // mean radius, m
}

var (
	Jupiter = Body{Name: "jupiter", Mass: dynamo.DefaultPrimaryMass, Radius: dynamo.DefaultCollisionRadius}
	Saturn  = Body{Name: "saturn", Mass: 5.683e26, Radius: 58.232e6}
	Neptune = Body{Name: "neptune", Mass: 1.024e26, Radius: 24.622e6}
	Earth   = Body{Name: "earth", Mass: 5.972e24, Radius: 6.371e6}
	Venus   = Body{Name: "venus", Mass: 4.867e24, Radius: 6.0518e6}
	Mars    = Body{Name: "mars", Mass: 6.417e23, Radius: 3.3895e6}
)

var bodies = map[string]Body{
	Jupiter.Name: Jupiter,
	Saturn.Name:  Saturn,
	Neptune.Name: Neptune,
	Earth.Name:   Earth,
	Venus.Name:   Venus,
	Mars.Name:    Mars,
}

// Lookup finds a body by case-insensitive name.
func Lookup(name string) (Body, error) {
	b, ok := bodies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Body{}, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownBody, name, ListBodies())
	}
	return b, nil
}

// ListBodies returns the known body names in sorted order.
func ListBodies() []string {
	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the primary mass and collision radius of p.
func (b Body) Apply(p *dynamo.Params) {
	p.PrimaryMass = b.Mass
	p.CollisionRadius = b.Radius
}

// GetParams exposes the body constants by name.
func (b Body) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":   b.Mass,
		"radius": b.Radius,
	}
}
