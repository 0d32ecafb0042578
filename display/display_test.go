package display

import (
	"testing"

	"github.com/phanxgames/offcanvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfacePresent(t *testing.T) {
	s, err := NewSurface(offcanvas.Dims{W: 4, H: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	buf, d, seq := s.Frame(nil, 0)
	assert.Empty(t, buf)
	assert.Zero(t, seq)
	assert.Zero(t, d)

	s.Rect(0, 0, 4, 2)
	require.NoError(t, s.Fill(offcanvas.Paint{Kind: offcanvas.MaterialColor, Color: "white"}))
	s.Present()

	buf, d, seq = s.Frame(nil, 0)
	assert.Equal(t, offcanvas.Dims{W: 4, H: 2}, d)
	assert.Equal(t, uint64(1), seq)
	require.Len(t, buf, 4*2*4)
	assert.Equal(t, byte(255), buf[3])

	// Nothing new: the caller's buffer comes back untouched.
	again, _, seq2 := s.Frame(buf[:0], seq)
	assert.Empty(t, again)
	assert.Equal(t, seq, seq2)
}

func TestWindowHost(t *testing.T) {
	w := NewWindow(640, 480, nil)
	bw, bh := w.Box()
	assert.Equal(t, 640.0, bw)
	assert.Equal(t, 480.0, bh)
	assert.Equal(t, 1.0, w.DevicePixelRatio())

	w.SetBox(800, 600, 2)
	bw, bh = w.Box()
	assert.Equal(t, 800.0, bw)
	assert.Equal(t, 600.0, bh)
	assert.Equal(t, 2.0, w.DevicePixelRatio())

	w.SetBox(800, 600, 0)
	assert.Equal(t, 1.0, w.DevicePixelRatio())
}

func TestNewGameRejectsBadSize(t *testing.T) {
	g := offcanvas.NewGraph()
	_, err := NewGame(g, 1, RunConfig{Width: 0, Height: 10})
	assert.Error(t, err)
}
