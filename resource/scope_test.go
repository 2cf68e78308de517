package resource

import (
	"errors"
	"testing"
)

func TestScope_CloseReleasesInReverse(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	scope := table.NewScope()
	var values []*destroyCounter
	var handles []Handle
	for i := 0; i < 3; i++ {
		d := &destroyCounter{}
		h, err := scope.Acquire(1, d)
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		values = append(values, d)
		handles = append(handles, h)
	}
	if scope.Held() != 3 {
		t.Fatalf("Held: got %d, want 3", scope.Held())
	}

	scope.Close()

	for i, d := range values {
		if d.count != 1 {
			t.Errorf("value %d destroyed %d times", i, d.count)
		}
	}
	released := obs.events[3:]
	for i, e := range released {
		if e.Type != EventReleased || e.Handle != handles[len(handles)-1-i] {
			t.Errorf("release %d: got %+v", i, e)
		}
	}
	if table.Len() != 0 || scope.Held() != 0 {
		t.Fatalf("Expected empty table and scope, got %d/%d", table.Len(), scope.Held())
	}
}

func TestScope_ReleaseEarly(t *testing.T) {
	table := NewTable()
	scope := table.NewScope()

	d1, d2 := &destroyCounter{}, &destroyCounter{}
	h1, _ := scope.Acquire(1, d1)
	scope.Acquire(1, d2)

	scope.Release(h1)
	if d1.count != 1 || scope.Held() != 1 {
		t.Fatalf("early release: count=%d held=%d", d1.count, scope.Held())
	}

	scope.Close()
	if d1.count != 1 || d2.count != 1 {
		t.Fatalf("Expected each value destroyed once, got %d and %d", d1.count, d2.count)
	}
}

func TestScope_AcquireAfterClose(t *testing.T) {
	table := NewTable()
	table.Close()

	d := &destroyCounter{}
	_, err := table.NewScope().Acquire(1, d)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
	if d.count != 1 {
		t.Fatal("value must be destroyed when the table refuses it")
	}
}

func TestCounter(t *testing.T) {
	table := NewTable()
	c := &Counter{}
	table.Subscribe(c)

	scope := table.NewScope()
	scope.Acquire(1, &destroyCounter{})
	scope.Acquire(1, &destroyCounter{})
	if c.Live() != 2 {
		t.Fatalf("Live: got %d, want 2", c.Live())
	}
	scope.Close()
	if c.Acquired() != 2 || c.Released() != 2 || c.Live() != 0 {
		t.Fatalf("got acquired=%d released=%d", c.Acquired(), c.Released())
	}
}
