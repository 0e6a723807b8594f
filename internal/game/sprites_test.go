package game

import (
	"math"
	"testing"

	"github.com/romakin/gemfall/internal/engine"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpriteLayerAdvanceCompletes(t *testing.T) {
	l := newSpriteLayer()
	l.load([]engine.Effect{
		{Piece: 1, Kind: engine.EffectMove, From: engine.Resting(engine.C(0, 0)), To: engine.Resting(engine.C(0, 3)), Ticks: 4},
		{Piece: 2, Kind: engine.EffectFade, From: engine.Resting(engine.C(1, 0)), To: engine.Transform{X: 1, Y: 0, Opacity: 0, Scale: 0.6}, Ticks: 2},
	})

	for i := 1; i <= 3; i++ {
		if done := l.advance(); done {
			t.Fatalf("advance %d reported done, want running until tick 4", i)
		}
	}
	if done := l.advance(); !done {
		t.Error("advance 4 = running, want done")
	}

	// Finished sprites hold their end state.
	tr, ok := l.at(1)
	if !ok {
		t.Fatal("sprite 1 missing after completion")
	}
	if !almost(tr.Y, 3) {
		t.Errorf("finished move Y = %v, want 3", tr.Y)
	}
	tr, _ = l.at(2)
	if !almost(tr.Opacity, 0) {
		t.Errorf("finished fade opacity = %v, want 0", tr.Opacity)
	}
}

func TestSpriteLayerEmptyBatchDoneImmediately(t *testing.T) {
	l := newSpriteLayer()
	l.load(nil)
	if !l.advance() {
		t.Error("empty batch should complete on the first advance")
	}
}

func TestSpriteTransformEasing(t *testing.T) {
	move := &sprite{kind: engine.EffectMove, from: engine.Transform{Opacity: 1, Scale: 1}, to: engine.Transform{X: 1, Opacity: 1, Scale: 1}, ticks: 4, elapsed: 2}
	if got := move.transform().X; !almost(got, 0.75) {
		t.Errorf("eased move at half time X = %v, want 0.75", got)
	}

	fade := &sprite{kind: engine.EffectFade, from: engine.Transform{Opacity: 1, Scale: 1}, to: engine.Transform{Opacity: 0, Scale: 1}, ticks: 4, elapsed: 1}
	if got := fade.transform().Opacity; !almost(got, 0.75) {
		t.Errorf("linear fade at quarter time opacity = %v, want 0.75", got)
	}

	pop := &sprite{kind: engine.EffectPop, from: engine.Transform{Opacity: 1}, to: engine.Transform{Opacity: 1, Scale: 1}, ticks: 4, elapsed: 2}
	if got := pop.transform().Scale; got <= 1 {
		t.Errorf("pop at half time scale = %v, want overshoot above 1", got)
	}
}

func TestOvershootEndpoints(t *testing.T) {
	if got := overshoot(0); !almost(got, 0) {
		t.Errorf("overshoot(0) = %v, want 0", got)
	}
	if got := overshoot(1); !almost(got, 1) {
		t.Errorf("overshoot(1) = %v, want 1", got)
	}
}

func ackClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestQueuedPresenterFIFO(t *testing.T) {
	q := &queuedPresenter{}

	a1 := q.Present(engine.Batch{Kind: engine.BatchSwap})
	a2 := q.Present(engine.Batch{Kind: engine.BatchClear})

	if ackClosed(a1) || ackClosed(a2) {
		t.Fatal("acks must stay open until the batch has played")
	}

	p1, ok := q.next()
	if !ok || p1.batch.Kind != engine.BatchSwap {
		t.Fatalf("first pop = (%v, %v), want the swap batch", p1.batch.Kind, ok)
	}
	close(p1.ack)
	if !ackClosed(a1) {
		t.Error("closing the popped ack must release the presenter channel")
	}

	p2, _ := q.next()
	if p2.batch.Kind != engine.BatchClear {
		t.Errorf("second pop = %v, want clear", p2.batch.Kind)
	}

	if _, ok := q.next(); ok {
		t.Error("pop from empty queue reported a batch")
	}

	a3 := q.Present(engine.Batch{Kind: engine.BatchFall})
	q.flush()
	if !ackClosed(a3) {
		t.Error("flush must ack queued batches")
	}
}

func TestScoreCollectorDrain(t *testing.T) {
	c := &scoreCollector{}
	if got := c.drain(); got != nil {
		t.Errorf("drain of empty collector = %v, want nil", got)
	}

	c.AddScore(3)
	c.AddScore(5)
	got := c.drain()
	if len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Errorf("drain = %v, want [3 5]", got)
	}
	if got := c.drain(); got != nil {
		t.Errorf("second drain = %v, want nil", got)
	}
}
