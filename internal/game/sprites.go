package game

import (
	"github.com/kamstrup/intmap"

	"github.com/romakin/gemfall/internal/engine"
)

// sprite is the live visual state of one piece while a batch plays.
type sprite struct {
	kind    engine.EffectKind
	from    engine.Transform
	to      engine.Transform
	ticks   int
	elapsed int
}

func (sp *sprite) progress() float64 {
	if sp.ticks <= 0 {
		return 1
	}
	t := float64(sp.elapsed) / float64(sp.ticks)
	if t > 1 {
		t = 1
	}
	return t
}

func (sp *sprite) done() bool {
	return sp.elapsed >= sp.ticks
}

// transform interpolates the sprite's current visual state. Moves ease
// out, fades run linearly, pops overshoot their final scale.
func (sp *sprite) transform() engine.Transform {
	t := sp.progress()
	switch sp.kind {
	case engine.EffectMove:
		t = easeOutQuad(t)
	case engine.EffectPop:
		t = overshoot(t)
	}
	return lerpTransform(sp.from, sp.to, t)
}

func lerpTransform(a, b engine.Transform, t float64) engine.Transform {
	return engine.Transform{
		X:       a.X + (b.X-a.X)*t,
		Y:       a.Y + (b.Y-a.Y)*t,
		Opacity: a.Opacity + (b.Opacity-a.Opacity)*t,
		Scale:   a.Scale + (b.Scale-a.Scale)*t,
	}
}

// easeOutQuad decelerates a move toward its target.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// overshoot runs past the target and settles back, giving pops a
// little bounce.
func overshoot(t float64) float64 {
	const back = 1.70158
	u := t - 1
	return 1 + u*u*((back+1)*u+back)
}

// spriteLayer holds the transforms of the batch currently playing,
// keyed by piece id for render-time lookup. The grid remains the sole
// owner of pieces; the layer never stores them.
type spriteLayer struct {
	byID *intmap.Map[engine.PieceID, *sprite]
	all  []*sprite
}

func newSpriteLayer() *spriteLayer {
	return &spriteLayer{byID: intmap.New[engine.PieceID, *sprite](128)}
}

// load replaces the layer contents with the batch's effects.
func (l *spriteLayer) load(effects []engine.Effect) {
	l.byID.Clear()
	l.all = l.all[:0]
	for _, e := range effects {
		sp := &sprite{
			kind:  e.Kind,
			from:  e.From,
			to:    e.To,
			ticks: e.Ticks,
		}
		l.byID.Put(e.Piece, sp)
		l.all = append(l.all, sp)
	}
}

// advance moves every sprite one tick and reports whether all of them
// have reached their end state.
func (l *spriteLayer) advance() bool {
	done := true
	for _, sp := range l.all {
		if sp.elapsed < sp.ticks {
			sp.elapsed++
		}
		if !sp.done() {
			done = false
		}
	}
	return done
}

// at returns the live transform for a piece, if one is active.
func (l *spriteLayer) at(id engine.PieceID) (engine.Transform, bool) {
	sp, ok := l.byID.Get(id)
	if !ok {
		return engine.Transform{}, false
	}
	return sp.transform(), true
}

func (l *spriteLayer) clear() {
	l.byID.Clear()
	l.all = l.all[:0]
}
