package store

import "testing"

func TestWritable_SetNotifiesUnchangedValue(t *testing.T) {
	w := NewWritable(1)
	var log []int

	w.Subscribe(func(v int) {
		log = append(log, v)
	})
	if w.Set(1) {
		t.Fatalf("expected set of equal value to report no change")
	}
	if !w.Set(2) {
		t.Fatalf("expected set of new value to report change")
	}

	want := []int{1, 1, 2}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestWritable_SetThenGet(t *testing.T) {
	w := NewWritable([]string{"a"})
	for _, v := range [][]string{{"b"}, {"b", "c"}, nil} {
		w.Set(v)
		got := w.Get()
		if len(got) != len(v) {
			t.Fatalf("expected %v, got %v", v, got)
		}
	}
}

func TestWritable_Update(t *testing.T) {
	w := NewWritable(1, WithEqual(EqualComparable[int]))

	if !w.Update(func(v int) int { return v + 1 }) {
		t.Fatalf("expected update to report change")
	}
	if w.Get() != 2 {
		t.Fatalf("expected updated value 2, got %d", w.Get())
	}
	if w.Update(func(v int) int { return v }) {
		t.Fatalf("expected update of equal value to report no change")
	}
	if w.Update(nil) {
		t.Fatalf("expected nil update to report no change")
	}
}

func TestWritable_Unsubscribe(t *testing.T) {
	w := NewWritable(0)
	calls := 0

	unsub := w.Subscribe(func(int) {
		calls++
	})
	w.Set(1)
	unsub()
	w.Set(2)
	w.Update(func(v int) int { return v * 10 })

	if calls != 2 {
		t.Fatalf("expected 2 calls before unsubscribe, got %d", calls)
	}
}

func TestWritable_StartHook(t *testing.T) {
	var publish func(string)
	stopped := false
	w := NewWritable("", WithStart(func(p func(string)) func() {
		publish = p
		return func() { stopped = true }
	}))

	var last string
	unsub := w.Subscribe(func(v string) { last = v })
	publish("from hook")
	if last != "from hook" || w.Get() != "from hook" {
		t.Fatalf("expected hook publish to reach subscribers, got %q", last)
	}

	w.Set("from caller")
	if last != "from caller" {
		t.Fatalf("expected set to reach subscribers, got %q", last)
	}

	unsub()
	if !stopped {
		t.Fatalf("expected stop after last unsubscribe")
	}
}

func TestWritable_Readonly(t *testing.T) {
	w := NewWritable(5)
	ro := w.Readonly()

	if _, ok := ro.(Writable[int]); ok {
		t.Fatalf("expected readonly view to hide Set")
	}
	w.Set(6)
	if ro.Get() != 6 {
		t.Fatalf("expected readonly view to track writes, got %d", ro.Get())
	}
}
