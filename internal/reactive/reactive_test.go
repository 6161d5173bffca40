package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSetNotifiesOnChange(t *testing.T) {
	v := New[float32](1)
	var got [][2]float32
	v.Subscribe(func(old, new float32) { got = append(got, [2]float32{old, new}) })

	v.Set(2)
	v.Set(2)
	v.Update(func(x float32) float32 { return x + 1 })

	assert.Equal(t, [][2]float32{{1, 2}, {2, 3}}, got)
	assert.Equal(t, float32(3), v.Get())
}

func TestUnsubscribe(t *testing.T) {
	v := New(0)
	calls := 0
	unsub := v.Subscribe(func(_, _ int) { calls++ })
	v.Set(1)
	unsub()
	unsub()
	v.Set(2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.Subscribers())
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	v := New(0)
	var order []string
	var unsubA func()
	unsubA = v.Subscribe(func(_, _ int) {
		order = append(order, "a")
		unsubA()
	})
	v.Subscribe(func(_, _ int) { order = append(order, "b") })

	v.Set(1)
	v.Set(2)
	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestWatchMultipleSources(t *testing.T) {
	w := New[float32](1)
	d := New[float32](2)
	runs := 0
	stop := Watch([]Source{w, d}, func() { runs++ })

	w.Set(3)
	d.Set(4)
	assert.Equal(t, 2, runs)

	stop()
	w.Set(5)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 0, w.Subscribers())
	assert.Equal(t, 0, d.Subscribers())
}

func TestWatchImmediate(t *testing.T) {
	v := New("a")
	runs := 0
	Watch([]Source{v}, func() { runs++ }, Immediate())
	assert.Equal(t, 1, runs)
}

func TestBatchCoalesces(t *testing.T) {
	w := New(1)
	d := New(2)
	runs := 0
	var seen [2]int
	Watch([]Source{w, d}, func() {
		runs++
		seen = [2]int{w.Get(), d.Get()}
	})

	Batch(func() {
		w.Set(10)
		Batch(func() { d.Set(20) })
		assert.Equal(t, 0, runs, "watchers must wait for the outermost batch")
		w.Set(11)
	})

	assert.Equal(t, 1, runs)
	assert.Equal(t, [2]int{11, 20}, seen)
}

func TestBatchSkipsStoppedWatcher(t *testing.T) {
	v := New(0)
	runs := 0
	stop := Watch([]Source{v}, func() { runs++ })
	Batch(func() {
		v.Set(1)
		stop()
	})
	assert.Equal(t, 0, runs)
}
