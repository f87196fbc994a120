package rowan

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ValueTween is the cancelable "active task" slot of an element: a timed
// interpolation toward a target value, advanced explicitly each tick.
// Starting a new drag or programmatic set overwrites the slot rather than
// relying on coroutine cancellation.
type ValueTween struct {
	tween  *gween.Tween
	target float64
	apply  func(float64)
	Done   bool
}

// newValueTween starts an interpolation from from to to over duration,
// pushing each intermediate value through apply. A non-positive duration
// applies the target immediately.
func newValueTween(from, to float64, duration time.Duration, apply func(float64)) *ValueTween {
	vt := &ValueTween{target: to, apply: apply}
	if duration <= 0 {
		apply(to)
		vt.Done = true
		return vt
	}
	vt.tween = gween.New(float32(from), float32(to), float32(duration.Seconds()), ease.Linear)
	return vt
}

// Update advances the tween by dt seconds. On completion the exact target
// value is applied, so repeated identical sets are idempotent.
func (vt *ValueTween) Update(dt float32) {
	if vt == nil || vt.Done {
		return
	}
	val, finished := vt.tween.Update(dt)
	if finished {
		vt.apply(vt.target)
		vt.Done = true
		return
	}
	vt.apply(float64(val))
}

// Target returns the value the tween is heading toward.
func (vt *ValueTween) Target() float64 {
	return vt.target
}

// PoseTween eases a node toward a target pose (movable snap animation).
type PoseTween struct {
	node       *Node
	fromPos    Vec3
	fromRot    Quat
	toPos      Vec3
	toRot      Quat
	tween      *gween.Tween
	Done       bool
	OnComplete func()
}

// newPoseTween starts a snap animation of node toward (pos, rot).
func newPoseTween(node *Node, pos Vec3, rot Quat, duration time.Duration) *PoseTween {
	pt := &PoseTween{
		node:    node,
		fromPos: node.Position,
		fromRot: node.Rotation,
		toPos:   pos,
		toRot:   rot,
	}
	if duration <= 0 {
		node.SetPosition(pos)
		node.SetRotation(rot)
		pt.Done = true
		return pt
	}
	pt.tween = gween.New(0, 1, float32(duration.Seconds()), ease.OutQuad)
	return pt
}

// Update advances the snap animation by dt seconds.
func (pt *PoseTween) Update(dt float32) {
	if pt == nil || pt.Done {
		return
	}
	t, finished := pt.tween.Update(dt)
	f := float64(t)
	pt.node.SetPosition(pt.fromPos.Lerp(pt.toPos, f))
	pt.node.SetRotation(pt.fromRot.Slerp(pt.toRot, f))
	if finished {
		pt.node.SetPosition(pt.toPos)
		pt.node.SetRotation(pt.toRot)
		pt.Done = true
		if pt.OnComplete != nil {
			pt.OnComplete()
		}
	}
}
