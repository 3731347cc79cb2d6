package panel

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver records what it was asked to do.
type fakeDriver struct {
	desc   Descriptor
	bounds image.Rectangle

	initErr error
	shown   []image.Image
	closed  bool
}

func (f *fakeDriver) Descriptor() Descriptor { return f.desc }

func (f *fakeDriver) Init(ctx context.Context) error { return f.initErr }

func (f *fakeDriver) Bounds() image.Rectangle { return f.bounds }

func (f *fakeDriver) Display(ctx context.Context, img image.Image) error {
	f.shown = append(f.shown, img)
	return nil
}

func (f *fakeDriver) Close() error {
	f.closed = true
	return nil
}

// fakePacker is a fakeDriver that also implements Packer.
type fakePacker struct {
	fakeDriver
	packed [][]byte
}

func (f *fakePacker) Pack(img image.Image) ([]byte, error) {
	b := img.Bounds()
	return []byte{byte(b.Dx()), byte(b.Dy())}, nil
}

func (f *fakePacker) DisplayBuffer(ctx context.Context, buf []byte) error {
	f.packed = append(f.packed, buf)
	return nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Descriptor{Model: "a", Width: 10, Height: 10}, nil))
	require.Error(t, r.Register(Descriptor{Model: "a"}, nil), "duplicate model")
	require.Error(t, r.Register(Descriptor{}, nil), "empty model")
	require.Error(t, r.Register(Descriptor{Model: "neg", Width: -1}, nil), "negative width")

	big := make(color.Palette, maxPaletteSize+1)
	for i := range big {
		big[i] = color.Gray16{uint16(i)}
	}
	require.Error(t, r.Register(Descriptor{Model: "big", Width: 1, Height: 1, Palette: big}, nil), "palette too long")
	require.NoError(t, r.Register(Descriptor{Model: "full", Width: 1, Height: 1, Palette: big[:maxPaletteSize]}, nil))

	assert.Panics(t, func() { r.MustRegister(Descriptor{Model: "a"}, nil) })
}

func TestRegistry_HardwareFlag(t *testing.T) {
	r := NewRegistry()
	factory := func(desc Descriptor, _ OpenOptions) (Driver, error) {
		return &fakeDriver{desc: desc}, nil
	}
	r.MustRegister(Descriptor{Model: "hw", Width: 1, Height: 1}, factory)
	r.MustRegister(Descriptor{Model: "sw", Width: 1, Height: 1}, nil)

	hw, err := r.Lookup("hw")
	require.NoError(t, err)
	assert.True(t, hw.Hardware)

	sw, err := r.Lookup("sw")
	require.NoError(t, err)
	assert.False(t, sw.Hardware)
}

func TestRegistry_ModelsSorted(t *testing.T) {
	r := NewRegistry()
	for _, m := range []string{"zeta", "alpha", "mid"} {
		r.MustRegister(Descriptor{Model: m}, nil)
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Models())

	descs := r.Descriptors()
	require.Len(t, descs, 3)
	assert.Equal(t, "alpha", descs[0].Model)
}

func TestRegistry_LookupErrors(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Descriptor{Model: "known"}, nil)

	_, err := r.Lookup("")
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "not specified")

	_, err = r.Lookup("missing")
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "known")
}

func TestRegistry_Open(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Descriptor{Model: "direct", Width: 4, Height: 2}, func(desc Descriptor, _ OpenOptions) (Driver, error) {
		return &fakeDriver{desc: desc}, nil
	})
	r.MustRegister(Descriptor{Model: "buffered-no-pack", Width: 4, Height: 2, Sequence: SequenceBuffered}, func(desc Descriptor, _ OpenOptions) (Driver, error) {
		return &fakeDriver{desc: desc}, nil
	})
	r.MustRegister(Descriptor{Model: "buffered", Width: 4, Height: 2, Sequence: SequenceBuffered}, func(desc Descriptor, _ OpenOptions) (Driver, error) {
		return &fakePacker{fakeDriver: fakeDriver{desc: desc}}, nil
	})
	r.MustRegister(Descriptor{Model: "broken", Width: 4, Height: 2}, func(desc Descriptor, _ OpenOptions) (Driver, error) {
		return nil, errors.New("no bus")
	})
	r.MustRegister(Descriptor{Model: "nohw", Width: 4, Height: 2}, nil)

	t.Run("direct", func(t *testing.T) {
		d, err := r.Open("direct", OpenOptions{})
		require.NoError(t, err)
		assert.IsType(t, &fakeDriver{}, d)
	})

	t.Run("buffered with packer", func(t *testing.T) {
		d, err := r.Open("buffered", OpenOptions{})
		require.NoError(t, err)
		assert.Implements(t, (*Packer)(nil), d)
	})

	t.Run("buffered without packer", func(t *testing.T) {
		_, err := r.Open("buffered-no-pack", OpenOptions{})
		require.ErrorIs(t, err, ErrUnsupportedDriver)
	})

	t.Run("factory failure", func(t *testing.T) {
		_, err := r.Open("broken", OpenOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no bus")
	})

	t.Run("no hardware backend", func(t *testing.T) {
		_, err := r.Open("nohw", OpenOptions{})
		require.ErrorIs(t, err, ErrUnsupportedDriver)
	})

	t.Run("output selects preview", func(t *testing.T) {
		d, err := r.Open("nohw", OpenOptions{Output: "out.png"})
		require.NoError(t, err)
		p, ok := d.(*Preview)
		require.True(t, ok)
		assert.Equal(t, "out.png", p.Path())
		assert.Equal(t, SequenceBuffered, p.Descriptor().Sequence)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Open("nope", OpenOptions{})
		require.ErrorIs(t, err, ErrConfig)
	})
}

func TestDimensions(t *testing.T) {
	t.Run("descriptor only", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "m", Width: 600, Height: 448}}
		w, h, err := Dimensions(d)
		require.NoError(t, err)
		assert.Equal(t, 600, w)
		assert.Equal(t, 448, h)
	})

	t.Run("bounds agree", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "m", Width: 600, Height: 448}, bounds: image.Rect(0, 0, 600, 448)}
		w, h, err := Dimensions(d)
		require.NoError(t, err)
		assert.Equal(t, 600, w)
		assert.Equal(t, 448, h)
	})

	t.Run("bounds disagree", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "m", Width: 212, Height: 104}, bounds: image.Rect(0, 0, 104, 212)}
		_, _, err := Dimensions(d)
		require.ErrorIs(t, err, ErrDimensions)
		assert.Contains(t, err.Error(), "104x212")
	})

	t.Run("bounds fallback", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "m"}, bounds: image.Rect(0, 0, 250, 122)}
		w, h, err := Dimensions(d)
		require.NoError(t, err)
		assert.Equal(t, 250, w)
		assert.Equal(t, 122, h)
	})

	t.Run("unknown", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "m"}}
		_, _, err := Dimensions(d)
		require.ErrorIs(t, err, ErrDimensions)
	})
}

func TestPresent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	ctx := context.Background()

	t.Run("direct", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "d"}}
		require.NoError(t, Present(ctx, d, img))
		assert.Len(t, d.shown, 1)
	})

	t.Run("buffered", func(t *testing.T) {
		d := &fakePacker{fakeDriver: fakeDriver{desc: Descriptor{Model: "b", Sequence: SequenceBuffered}}}
		require.NoError(t, Present(ctx, d, img))
		assert.Empty(t, d.shown)
		require.Len(t, d.packed, 1)
		assert.Equal(t, []byte{4, 2}, d.packed[0])
	})

	t.Run("buffered without packer", func(t *testing.T) {
		d := &fakeDriver{desc: Descriptor{Model: "b", Sequence: SequenceBuffered}}
		require.ErrorIs(t, Present(ctx, d, img), ErrUnsupportedDriver)
	})
}

func TestDescriptor_Format(t *testing.T) {
	mono := Descriptor{Palette: color.Palette{color.Black, color.White}}
	assert.False(t, mono.SupportsColor())
	assert.Equal(t, "mono", mono.Format().String())

	flagged := Descriptor{Color: true}
	assert.True(t, flagged.SupportsColor())

	redInk := Descriptor{Palette: color.Palette{color.Black, color.White, color.NRGBA{255, 0, 0, 255}}}
	assert.True(t, redInk.SupportsColor())
	assert.Equal(t, "rgb", redInk.Format().String())
	assert.Equal(t, []string{"#000000", "#FFFFFF", "#FF0000"}, redInk.Colors())
}
