package store

import (
	"strconv"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestDerived_Sum(t *testing.T) {
	a := NewWritable(1)
	b := NewWritable(2)
	sum := Derive2[int, int](a, b, func(x, y int) int { return x + y })

	if got := sum.Get(); got != 3 {
		t.Fatalf("expected initial sum 3, got %d", got)
	}
	a.Set(5)
	if got := sum.Get(); got != 7 {
		t.Fatalf("expected sum 7 after change, got %d", got)
	}
	b.Update(func(v int) int { return v * 10 })
	if got := sum.Get(); got != 25 {
		t.Fatalf("expected sum 25 after update, got %d", got)
	}
}

func TestDerived_ComputesOnceOnConstruction(t *testing.T) {
	a := NewWritable(1)
	b := NewWritable(2)
	computes := 0

	NewDerived(func() int {
		computes++
		return a.Get() + b.Get()
	}, a, b)
	if computes != 1 {
		t.Fatalf("expected a single initial compute, got %d", computes)
	}
}

func TestDerived_EagerSourceSubscription(t *testing.T) {
	starts := 0
	src := NewReadable(10, func(publish func(int)) func() {
		starts++
		publish(20)
		return nil
	})

	double := Derive(func(vs []int) int { return vs[0] * 2 }, Readable[int](src))
	assert.Equal(t, starts, 1)
	assert.Equal(t, src.Active(), true)
	assert.Equal(t, double.Get(), 40)
	assert.Equal(t, double.Subscribers(), 0)
}

func TestDerived_AlwaysNotifies(t *testing.T) {
	a := NewWritable(2)
	parity := Derive(func(vs []int) bool { return vs[0]%2 == 0 }, Readable[int](a))

	var log []bool
	parity.Subscribe(func(v bool) { log = append(log, v) })
	a.Set(4)
	a.Set(5)

	assert.Equal(t, log, []bool{true, true, false})
}

func TestDerived_Consistency(t *testing.T) {
	a := NewWritable(1)
	b := NewWritable(2)
	f := func(x, y int) int { return x*100 + y }
	d := Derive2[int, int](a, b, f)

	check := func() {
		t.Helper()
		if got, want := d.Get(), f(a.Get(), b.Get()); got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	check()
	for i := 0; i < 5; i++ {
		a.Set(i)
		check()
		b.Set(i * 3)
		check()
	}
}

func TestDerived_Chain(t *testing.T) {
	count := NewWritable(1)
	label := NewWritable("n")
	doubled := Derive(func(vs []int) int { return vs[0] * 2 }, Readable[int](count))
	text := Derive3[int, int, string, string](count, doubled, label, func(c, d int, l string) string {
		return l + "=" + strconv.Itoa(c) + "/" + strconv.Itoa(d)
	})

	var seen []string
	text.Subscribe(func(v string) { seen = append(seen, v) })
	count.Set(3)

	assert.Equal(t, text.Get(), "n=3/6")
	assert.Equal(t, seen[0], "n=1/2")
	assert.Equal(t, seen[len(seen)-1], "n=3/6")
	assert.Equal(t, text.String(), "Derived(n=3/6)")
}

func TestDerived_Dispose(t *testing.T) {
	stops := 0
	a := NewWritable(1, WithStart(func(func(int)) func() {
		return func() { stops++ }
	}))
	d := Derive(func(vs []int) int { return vs[0] }, Readable[int](a))

	calls := 0
	d.Subscribe(func(int) { calls++ })

	d.Dispose()
	d.Dispose()
	if stops != 1 {
		t.Fatalf("expected source to stop after dispose, got %d", stops)
	}

	a.Set(2)
	if got := d.Get(); got != 1 {
		t.Fatalf("expected derived to stay at 1 after dispose, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected no notifications after dispose, got %d", calls)
	}
}

func TestDerived_WithOptions(t *testing.T) {
	a := NewWritable(1)
	d := NewDerivedWithOptions([]Option[int]{WithName[int]("mirror")}, a.Get, a)
	a.Set(9)
	if d.Get() != 9 {
		t.Fatalf("expected mirrored value 9, got %d", d.Get())
	}
}

func TestDerived_NilCompute(t *testing.T) {
	a := NewWritable(1)
	d := NewDerived[string](nil, a)
	a.Set(2)
	if d.Get() != "" {
		t.Fatalf("expected zero value, got %q", d.Get())
	}
}
