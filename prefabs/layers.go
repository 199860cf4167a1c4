package prefabs

import (
	"fmt"
	"strings"
)

// Collision and hit layers, one bit each.
const (
	LayerPlayer uint32 = 1 << iota
	LayerEnemy
	LayerWeapon
	LayerWall
)

var layerNames = map[string]uint32{
	"player": LayerPlayer,
	"enemy":  LayerEnemy,
	"weapon": LayerWeapon,
	"wall":   LayerWall,
}

// ParseLayer resolves one layer name.
func ParseLayer(name string) (uint32, error) {
	bit, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown layer %q", name)
	}
	return bit, nil
}

// ParseLayers ORs a list of layer names into a mask. An empty list is an
// empty mask.
func ParseLayers(names []string) (uint32, error) {
	var mask uint32
	for _, n := range names {
		bit, err := ParseLayer(n)
		if err != nil {
			return 0, err
		}
		mask |= bit
	}
	return mask, nil
}
