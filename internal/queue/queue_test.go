package queue

import (
	"sync"
	"testing"
)

// record is a stand-in for a queued database row
type record struct {
	ID   int
	Kind string
}

func TestQueue_New(t *testing.T) {
	q := New[record]()
	if q == nil {
		t.Fatal("expected non-nil queue")
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
}

func TestQueue_PushPop(t *testing.T) {
	q := New[record]()
	q.Push(record{ID: 1}, record{ID: 2})

	r, ok := q.Pop()
	if !ok || r.ID != 1 {
		t.Fatalf("expected record 1, got %+v ok=%v", r, ok)
	}
	r, ok = q.Pop()
	if !ok || r.ID != 2 {
		t.Fatalf("expected record 2, got %+v ok=%v", r, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("expected empty pop to report !ok")
	}
}

func TestQueue_Take(t *testing.T) {
	q := New[record]()
	for i := 1; i <= 5; i++ {
		q.Push(record{ID: i})
	}

	batch := q.Take(2)
	if len(batch) != 2 || batch[0].ID != 1 || batch[1].ID != 2 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	if q.Len() != 3 {
		t.Errorf("expected 3 left, got %d", q.Len())
	}

	rest := q.Take(10)
	if len(rest) != 3 || rest[0].ID != 3 {
		t.Fatalf("unexpected rest %+v", rest)
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}
}

func TestQueue_TakeDoesNotAlias(t *testing.T) {
	q := New[record]()
	q.Push(record{ID: 1}, record{ID: 2}, record{ID: 3})

	batch := q.Take(1)
	q.Push(record{ID: 4})
	batch[0].Kind = "changed"

	r, _ := q.Pop()
	if r.ID != 2 || r.Kind != "" {
		t.Errorf("queue saw batch mutation: %+v", r)
	}
}

func TestQueue_Requeue(t *testing.T) {
	q := New[record]()
	q.Push(record{ID: 1}, record{ID: 2})
	failed := q.GetAndEmpty()
	q.Push(record{ID: 3})

	q.Requeue(failed...)

	got := q.GetAndEmpty()
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Errorf("position %d: expected %d, got %d", i, want, got[i].ID)
		}
	}

	q.Requeue()
	if !q.Empty() {
		t.Error("empty requeue should not add items")
	}
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[record]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			q.Push(record{ID: id})
		}(i)
	}
	wg.Wait()

	if q.Len() != 50 {
		t.Errorf("expected 50 items, got %d", q.Len())
	}
}
