package timewarp

import (
	"testing"
	"time"
)

func framedSeq(seq uint64) publishedFrame {
	return publishedFrame{
		Frame:    Frame{FrameIndex: int64(seq)},
		sequence: seq,
	}
}

func TestFrameSlot_FirstPublishTakesInitialConsumed(t *testing.T) {
	slot := newFrameSlot()
	done := make(chan struct{})

	// consumed starts signaled, so the first publish only needs pace.
	raise(slot.pace)
	if err := slot.publish(framedSeq(1), done); err != nil {
		t.Fatalf("publish() = %v, want nil", err)
	}

	got, ok := slot.tryAdmit()
	if !ok {
		t.Fatal("tryAdmit() found no frame after publish")
	}
	if got.sequence != 1 {
		t.Errorf("tryAdmit() sequence = %d, want 1", got.sequence)
	}
}

func TestFrameSlot_PublishBlocksUntilConsumed(t *testing.T) {
	slot := newFrameSlot()
	done := make(chan struct{})

	raise(slot.pace)
	if err := slot.publish(framedSeq(1), done); err != nil {
		t.Fatalf("first publish() = %v, want nil", err)
	}

	published := make(chan error, 1)
	go func() {
		published <- slot.publish(framedSeq(2), done)
	}()

	select {
	case err := <-published:
		t.Fatalf("second publish returned %v before the first frame was consumed", err)
	case <-time.After(20 * time.Millisecond):
	}

	// Consumer admits the frame and raises both signals.
	raise(slot.consumed)
	raise(slot.pace)

	select {
	case err := <-published:
		if err != nil {
			t.Fatalf("second publish() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("second publish still blocked after consume")
	}

	got, ok := slot.tryAdmit()
	if !ok || got.sequence != 2 {
		t.Errorf("tryAdmit() = (%d, %v), want sequence 2", got.sequence, ok)
	}
}

func TestFrameSlot_PublishBlocksOnPace(t *testing.T) {
	slot := newFrameSlot()
	done := make(chan struct{})

	published := make(chan error, 1)
	go func() {
		// consumed is pre-signaled; pace is not. The slot should hold the
		// new frame while publish waits on pace.
		published <- slot.publish(framedSeq(1), done)
	}()

	deadline := time.After(time.Second)
	for {
		if got, ok := slot.tryAdmit(); ok && got.sequence == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("frame never became visible while publish waits on pace")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	select {
	case err := <-published:
		t.Fatalf("publish returned %v before pace was raised", err)
	case <-time.After(20 * time.Millisecond):
	}

	raise(slot.pace)
	select {
	case err := <-published:
		if err != nil {
			t.Fatalf("publish() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publish still blocked after pace")
	}
}

func TestFrameSlot_TryAdmitEmpty(t *testing.T) {
	slot := newFrameSlot()
	if _, ok := slot.tryAdmit(); ok {
		t.Error("tryAdmit() on an empty slot reported a frame")
	}
}

func TestFrameSlot_TryAdmitDoesNotBlockOnHeldMutex(t *testing.T) {
	slot := newFrameSlot()
	slot.mu.Lock()
	defer slot.mu.Unlock()

	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		if _, ok := slot.tryAdmit(); ok {
			t.Error("tryAdmit() reported a frame while the mutex was held")
		}
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("tryAdmit blocked on a held mutex")
	}
}

func TestFrameSlot_ReleaseUnblocksPublish(t *testing.T) {
	slot := newFrameSlot()
	done := make(chan struct{})

	raise(slot.pace)
	if err := slot.publish(framedSeq(1), done); err != nil {
		t.Fatalf("first publish() = %v, want nil", err)
	}

	published := make(chan error, 1)
	go func() {
		published <- slot.publish(framedSeq(2), done)
	}()

	time.Sleep(10 * time.Millisecond)
	close(done)
	slot.release()

	// The blocked select races between the shutdown flag and the
	// force-raised semaphore; either way it must return promptly, and the
	// only non-nil result is ErrShutdown.
	select {
	case err := <-published:
		if err != nil && err != ErrShutdown {
			t.Fatalf("publish() after shutdown = %v, want nil or ErrShutdown", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publish still blocked after release")
	}
}

func TestRaise_Idempotent(t *testing.T) {
	ch := make(chan struct{}, 1)
	raise(ch)
	raise(ch)
	raise(ch)
	if len(ch) != 1 {
		t.Errorf("len(ch) = %d after repeated raise, want 1", len(ch))
	}
}
