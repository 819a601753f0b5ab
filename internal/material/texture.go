package material

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Wrap selects how texture coordinates outside [0, 1] are folded back.
type Wrap uint8

const (
	ClampToEdge Wrap = iota
	Repeat
	MirroredRepeat
)

// ParseWrap maps "clamp", "repeat" and "mirror"; anything else clamps.
func ParseWrap(s string) Wrap {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "repeat", "repeatwrapping":
		return Repeat
	case "mirror", "mirrored", "mirroredrepeat", "mirroredrepeatwrapping":
		return MirroredRepeat
	default:
		return ClampToEdge
	}
}

// Filter selects the sampling kernel.
type Filter uint8

const (
	Linear Filter = iota
	Nearest
)

// ParseFilter maps "nearest"; anything else is Linear.
func ParseFilter(s string) Filter {
	if strings.EqualFold(strings.TrimSpace(s), "nearest") {
		return Nearest
	}
	return Linear
}

// TextureOptions controls how a loaded image is sampled.
type TextureOptions struct {
	WrapS, WrapT Wrap
	// RepeatX and RepeatY scale texture coordinates; 0 means 1.
	RepeatX, RepeatY float32
	Filter           Filter
	// MaxSize caps the longest image side; larger images are downscaled.
	// 0 means 1024.
	MaxSize int
}

// ErrNotImage is returned when an asset is not a recognized image.
var ErrNotImage = errors.New("not an image")

// Texture is a decoded image plus its sampling options.
type Texture struct {
	Name    string
	Options TextureOptions

	img *image.RGBA
}

// Size returns the stored image dimensions.
func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// TextureLoader loads textures from an asset directory and caches decoded
// images by name.
type TextureLoader struct {
	Root string

	mu     sync.Mutex
	images map[string]*image.RGBA
}

// NewTextureLoader returns a loader resolving relative names against root.
func NewTextureLoader(root string) *TextureLoader {
	return &TextureLoader{Root: root, images: make(map[string]*image.RGBA)}
}

// Load returns a texture for name with the given options. The decoded image
// is shared between textures loaded from the same name.
func (l *TextureLoader) Load(name string, opts TextureOptions) (*Texture, error) {
	if opts.RepeatX == 0 {
		opts.RepeatX = 1
	}
	if opts.RepeatY == 0 {
		opts.RepeatY = 1
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 1024
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	key := fmt.Sprintf("%s@%d", name, opts.MaxSize)
	img, ok := l.images[key]
	if !ok {
		var err error
		img, err = l.decode(name, opts.MaxSize)
		if err != nil {
			return nil, err
		}
		if l.images == nil {
			l.images = make(map[string]*image.RGBA)
		}
		l.images[key] = img
	}
	return &Texture{Name: name, Options: opts, img: img}, nil
}

func (l *TextureLoader) decode(name string, maxSize int) (*image.RGBA, error) {
	path := name
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, name)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	if !filetype.IsImage(buf) {
		return nil, fmt.Errorf("load texture %s: %w", name, ErrNotImage)
	}
	src, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", name, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxSize || h > maxSize {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		return dst, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}

// Sample returns the color at texture coordinates (u, v), with v = 0 at the
// bottom of the image.
func (t *Texture) Sample(u, v float32) colorful.Color {
	w, h := t.Size()
	u = wrap(u*t.Options.RepeatX, t.Options.WrapS)
	v = wrap(v*t.Options.RepeatY, t.Options.WrapT)
	x := u * float32(w)
	y := (1 - v) * float32(h)

	if t.Options.Filter == Nearest {
		return t.texel(int(x), int(y))
	}

	x -= 0.5
	y -= 0.5
	x0, y0 := floor(x), floor(y)
	fx, fy := float64(x-float32(x0)), float64(y-float32(y0))
	top := t.texel(x0, y0).BlendRgb(t.texel(x0+1, y0), fx)
	bottom := t.texel(x0, y0+1).BlendRgb(t.texel(x0+1, y0+1), fx)
	return top.BlendRgb(bottom, fy)
}

// texel reads a pixel, clamping to the image edges.
func (t *Texture) texel(x, y int) colorful.Color {
	w, h := t.Size()
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+3 : i+3]
	return colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
}

func wrap(x float32, mode Wrap) float32 {
	switch mode {
	case Repeat:
		return x - float32(floor(x))
	case MirroredRepeat:
		f := floor(x)
		frac := x - float32(f)
		if f%2 != 0 {
			return 1 - frac
		}
		return frac
	default:
		return min(max(x, 0), 0.9999)
	}
}

func floor(x float32) int {
	i := int(x)
	if x < 0 && float32(i) != x {
		i--
	}
	return i
}
