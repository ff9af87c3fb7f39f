package wm

import "testing"

func TestQueueDrainRunsInFIFOOrder(t *testing.T) {
	var q Queue
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.Post(func() { order = append(order, i) })
	}
	q.Drain()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..4 in sequence", order)
		}
	}
}

func TestQueueDrainPicksUpTasksPostedDuringDrain(t *testing.T) {
	var q Queue
	ran := 0
	q.Post(func() {
		ran++
		q.Post(func() { ran++ })
	})
	q.Drain()
	if ran != 2 {
		t.Fatalf("ran = %d, want 2 (original task plus its repost)", ran)
	}
}

func TestQueueWakeCalledOnPost(t *testing.T) {
	var q Queue
	woken := 0
	q.SetWake(func() { woken++ })
	q.Post(func() {})
	if woken != 1 {
		t.Fatalf("woken = %d, want 1", woken)
	}
}

func TestQueuePending(t *testing.T) {
	var q Queue
	if q.Pending() {
		t.Fatalf("empty queue should not report pending")
	}
	q.Post(func() {})
	if !q.Pending() {
		t.Fatalf("queue with a posted task should report pending")
	}
	q.Drain()
	if q.Pending() {
		t.Fatalf("drained queue should not report pending")
	}
}
