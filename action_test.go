package actionqueue

import (
	"context"
	"testing"
	"time"
)

func Test_actionFunc(t *testing.T) {
	var gotToken CancelToken
	action := ActionFunc(func(_ context.Context, token CancelToken) (bool, error) {
		gotToken = token
		return true, nil
	})

	ok, err := action.Run(context.Background(), NeverCanceled)
	if !ok || err != nil {
		t.Errorf("expect (true, nil), got (%t, %v)", ok, err)
	}
	if gotToken == nil {
		t.Error("token not passed through")
	}
}

func Test_delayAction(t *testing.T) {
	action := NewDelayAction(50 * time.Millisecond)

	if p := action.Progress(); p != 0 {
		t.Errorf("progress before run: expect 0, got %f", p)
	}

	start := time.Now()
	ok, err := action.Run(context.Background(), NeverCanceled)
	if !ok || err != nil {
		t.Errorf("expect (true, nil), got (%t, %v)", ok, err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned before the delay elapsed: %s", elapsed)
	}
	if p := action.Progress(); p != 1 {
		t.Errorf("progress after run: expect 1, got %f", p)
	}
}

func Test_delayAction_cancel(t *testing.T) {
	action := NewDelayAction(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	ok, err := action.Run(ctx, NeverCanceled)
	if ok || err != nil {
		t.Errorf("cancelled delay: expect (false, nil), got (%t, %v)", ok, err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("cancelled delay should return immediately, took %s", elapsed)
	}
}

func Test_delayAction_weight(t *testing.T) {
	if w := NewDelayAction(time.Millisecond).ProgressWeight(); w != 1 {
		t.Errorf("default weight: expect 1, got %f", w)
	}
	if w := NewWeightedDelayAction(time.Millisecond, 2.5).ProgressWeight(); w != 2.5 {
		t.Errorf("weight: expect 2.5, got %f", w)
	}
}
