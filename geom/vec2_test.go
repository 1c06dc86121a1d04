package geom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVec2JSONRoundTrips(t *testing.T) {
	v := NewVec2(1.5, -2.25)
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out Vec2
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, v.X(), out.X())
	require.Equal(t, v.Y(), out.Y())
}

func TestAreaSubtractCoversEdgeStrips(t *testing.T) {
	a := NewArea(New(0, 0), 10, 10)
	b := NewArea(New(2, 0), 10, 10)
	strips := a.Subtract(b)
	total := int64(0)
	for _, s := range strips {
		total += s.Size()
	}
	require.Equal(t, a.Size()-a.Intersect(b).Size(), total)
}
