// Package motion holds the geometry behind the site's pointer animations:
// the rotating project carousel, tilting skill cards and the tracking eyes.
// The browser script runs the same formulas; the server uses them for the
// initial carousel layout and ships the constants in a data attribute.
package motion

import (
	"encoding/json"
	"fmt"
	"math"
)

// Carousel layout.
const (
	Radius        = 500.0
	ActiveScale   = 1.0
	InactiveScale = 0.75
	DepthOffset   = -400.0
	MinSwipe      = 50.0
	ImageWidth    = 800
	ImageHeight   = 500
	// Frames is the length of one carousel transition at 60 fps.
	Frames        = 60
	// MinOpacity is the opacity of the slide furthest back.
	MinOpacity    = 0.3
)

// Card interaction.
const (
	TiltLimit     = 15.0
	ExpandScale   = 1.3
	BackdropDelay = 250
)

// Eyes.
const (
	EyeMaxX      = 8.0
	EyeMaxY      = 6.0
	RightEyeLift = 2.0
	FaceSize     = 320
	EyeSize      = 20
)

// Point is a position in CSS pixels.
type Point struct {
	X, Y float64
}

// Rect is an element box as returned by getBoundingClientRect.
type Rect struct {
	Left, Top, Width, Height float64
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Placement is where one carousel slide sits for a given rotation.
type Placement struct {
	X, Y, Z float64
	Scale   float64
	Opacity float64
}

// Step is the angle between neighbouring slides.
func Step(count int) float64 {
	if count <= 0 {
		return 0
	}
	return 2 * math.Pi / float64(count)
}

// Position places slide index of count around the ring turned by rotation
// radians. The slide at angle zero is in front at full scale.
func Position(index, count int, rotation float64) Placement {
	angle := float64(index)*Step(count) + rotation
	x := math.Sin(angle) * Radius
	z := math.Cos(angle)*Radius + DepthOffset
	nz := (z - DepthOffset) / Radius

	return Placement{
		X:       x,
		Y:       0,
		Z:       z,
		Scale:   InactiveScale + (ActiveScale-InactiveScale)*(nz+1)/2,
		Opacity: math.Max(MinOpacity, 0.5+0.5*nz),
	}
}

// Transform renders p as a CSS transform.
func (p Placement) Transform() string {
	return fmt.Sprintf("translate3d(%.2fpx, %.2fpx, %.2fpx) scale(%.3f)",
		tidy(p.X), tidy(p.Y), tidy(p.Z), tidy(p.Scale))
}

// ZIndex stacks slides so nearer ones cover farther ones.
func (p Placement) ZIndex() int {
	return int(math.Round(p.Z - DepthOffset + Radius))
}

// EaseOutExpo maps linear progress in [0, 1] onto a fast-start curve.
func EaseOutExpo(progress float64) float64 {
	if progress >= 1 {
		return 1
	}
	if progress <= 0 {
		return 0
	}
	return 1 - math.Pow(2, -10*progress)
}

// Carousel tracks the selected slide and the rotation animating towards it.
// The zero value is not usable; create one with NewCarousel.
type Carousel struct {
	count     int
	index     int
	rotation  float64
	start     float64
	target    float64
	frame     int
	animating bool
}

// NewCarousel returns a carousel over count slides showing the first one.
func NewCarousel(count int) *Carousel {
	return &Carousel{count: count}
}

// Index is the selected slide.
func (c *Carousel) Index() int { return c.index }

// Rotation is the current ring rotation in radians.
func (c *Carousel) Rotation() float64 { return c.rotation }

// Target is the rotation the running transition ends at.
func (c *Carousel) Target() float64 { return c.target }

// Animating reports whether a transition is in progress.
func (c *Carousel) Animating() bool { return c.animating }

// Counter is the "current / total" label under the carousel.
func (c *Carousel) Counter() string {
	return fmt.Sprintf("%d / %d", c.index+1, c.count)
}

// Next selects the following slide, wrapping to the first. It reports
// whether a transition started.
func (c *Carousel) Next() bool {
	if !c.canMove() {
		return false
	}
	c.index = (c.index + 1) % c.count
	c.begin(c.rotation - Step(c.count))
	return true
}

// Previous selects the preceding slide, wrapping to the last.
func (c *Carousel) Previous() bool {
	if !c.canMove() {
		return false
	}
	c.index = (c.index - 1 + c.count) % c.count
	c.begin(c.rotation + Step(c.count))
	return true
}

// GoTo selects slide i directly.
func (c *Carousel) GoTo(i int) bool {
	if !c.canMove() || i == c.index || i < 0 || i >= c.count {
		return false
	}
	diff := i - c.index
	c.index = i
	c.begin(c.rotation - float64(diff)*Step(c.count))
	return true
}

// Tick advances the running transition by one frame and reports whether it
// is still running.
func (c *Carousel) Tick() bool {
	if !c.animating {
		return false
	}
	c.frame++
	progress := float64(c.frame) / Frames
	if progress >= 1 {
		c.rotation = c.target
		c.animating = false
		return false
	}
	c.rotation = c.start + (c.target-c.start)*EaseOutExpo(progress)
	return true
}

// Settle finishes the running transition immediately.
func (c *Carousel) Settle() {
	for c.Tick() {
	}
}

// Placements positions every slide for the current rotation.
func (c *Carousel) Placements() []Placement {
	out := make([]Placement, c.count)
	for i := range out {
		out[i] = Position(i, c.count, c.rotation)
	}
	return out
}

func (c *Carousel) canMove() bool {
	return c.count > 1 && !c.animating
}

func (c *Carousel) begin(target float64) {
	c.start = c.rotation
	c.target = target
	c.frame = 0
	c.animating = true
}

// Swipe is the carousel action a touch gesture maps to.
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipePrevious
	SwipeNext
)

func (s Swipe) String() string {
	switch s {
	case SwipePrevious:
		return "previous"
	case SwipeNext:
		return "next"
	default:
		return "none"
	}
}

// DetectSwipe classifies a touch moved by (dx, dy). Mostly-horizontal moves
// longer than MinSwipe go back when moving right and forward when moving left.
func DetectSwipe(dx, dy float64) Swipe {
	if math.Abs(dx) <= MinSwipe || math.Abs(dx) <= math.Abs(dy) {
		return SwipeNone
	}
	if dx > 0 {
		return SwipePrevious
	}
	return SwipeNext
}

// Rotation is a card tilt in degrees.
type Rotation struct {
	X, Y float64
}

// Tilt turns a card towards the pointer at (x, y) relative to the card's
// top-left corner.
func Tilt(x, y, width, height float64) Rotation {
	if width <= 0 || height <= 0 {
		return Rotation{}
	}
	cx, cy := width/2, height/2
	return Rotation{
		X: tidy(-((y - cy) / cy) * TiltLimit),
		Y: tidy(((x - cx) / cx) * TiltLimit),
	}
}

// Expansion is the transform that brings a card to the viewport centre.
type Expansion struct {
	TranslateX, TranslateY float64
	Scale                  float64
}

// ExpandOffset centres card inside a viewport of the given size.
func ExpandOffset(card Rect, viewportWidth, viewportHeight float64) Expansion {
	c := card.Center()
	return Expansion{
		TranslateX: viewportWidth/2 - c.X,
		TranslateY: viewportHeight/2 - c.Y,
		Scale:      ExpandScale,
	}
}

// Eyes holds the pupil offsets for both eyes.
type Eyes struct {
	Left, Right Point
}

// EyeOffset points the eyes at pointer. bounds is the face box; pointers
// outside it clamp to its edge.
func EyeOffset(pointer Point, bounds Rect) Eyes {
	hw, hh := bounds.Width/2, bounds.Height/2
	if hw <= 0 || hh <= 0 {
		return Eyes{Right: Point{Y: -RightEyeLift}}
	}
	x := clamp(pointer.X-bounds.Left-hw, -hw, hw) / hw
	y := clamp(pointer.Y-bounds.Top-hh, -hh, hh) / hh

	return Eyes{
		Left:  Point{X: x * EyeMaxX, Y: y * EyeMaxY},
		Right: Point{X: x * EyeMaxX, Y: y*EyeMaxY - RightEyeLift},
	}
}

// Config is the subset of constants the browser script reads from the
// data-motion attribute.
type Config struct {
	Radius        float64 `json:"radius"`
	ActiveScale   float64 `json:"activeScale"`
	InactiveScale float64 `json:"inactiveScale"`
	DepthOffset   float64 `json:"depthOffset"`
	MinSwipe      float64 `json:"minSwipe"`
	Frames        int     `json:"frames"`
	TiltLimit     float64 `json:"tiltLimit"`
	ExpandScale   float64 `json:"expandScale"`
	BackdropDelay int     `json:"backdropDelay"`
	EyeMaxX       float64 `json:"eyeMaxX"`
	EyeMaxY       float64 `json:"eyeMaxY"`
	RightEyeLift  float64 `json:"rightEyeLift"`
}

// DefaultConfig returns the constants above.
func DefaultConfig() Config {
	return Config{
		Radius:        Radius,
		ActiveScale:   ActiveScale,
		InactiveScale: InactiveScale,
		DepthOffset:   DepthOffset,
		MinSwipe:      MinSwipe,
		Frames:        Frames,
		TiltLimit:     TiltLimit,
		ExpandScale:   ExpandScale,
		BackdropDelay: BackdropDelay,
		EyeMaxX:       EyeMaxX,
		EyeMaxY:       EyeMaxY,
		RightEyeLift:  RightEyeLift,
	}
}

// JSON encodes c for the data-motion attribute.
func (c Config) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// tidy drops floating-point noise and negative zero.
func tidy(v float64) float64 {
	if math.Abs(v) < 1e-9 {
		return 0
	}
	return v
}
