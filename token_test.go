package actionqueue

import (
	"context"
	"testing"
)

func Test_cancelSource(t *testing.T) {
	src := NewCancelSource(context.Background())
	tok := src.Token()

	if src.Canceled() || tok.Canceled() {
		t.Error("fresh source must not be cancelled")
	}

	src.Cancel()
	if !src.Canceled() {
		t.Error("source not cancelled after Cancel")
	}
	if !tok.Canceled() {
		t.Error("token is a live view, must reflect Cancel")
	}
	select {
	case <-src.Context().Done():
	default:
		t.Error("derived context must be done after Cancel")
	}

	src.Cancel() // idempotent
	if !src.Canceled() {
		t.Error("double Cancel changed state")
	}
}

func Test_cancelSource_release(t *testing.T) {
	src := NewCancelSource(context.Background())

	src.Release()
	select {
	case <-src.Context().Done():
	default:
		t.Error("derived context must be done after Release")
	}
	if !src.Canceled() {
		t.Error("released source must count as cancelled to late pollers")
	}

	src.Release() // idempotent, like context cancel funcs
	src.Cancel()  // harmless after Release
}

func Test_cancelSource_parents(t *testing.T) {
	parent := NewCancelSource(context.Background())
	other := NewCancelSource(context.Background())
	child := NewCancelSource(context.Background(), parent.Token(), other.Token())

	if child.Canceled() {
		t.Error("child cancelled while no parent is")
	}

	parent.Cancel()
	if !child.Canceled() {
		t.Error("parent cancellation must propagate to the child")
	}
	if other.Canceled() {
		t.Error("sibling parent affected by another parent's Cancel")
	}
	t.Log("propagation ok")

	leaf := NewCancelSource(context.Background(), NeverCanceled)
	leaf.Cancel()
	if NeverCanceled.Canceled() {
		t.Error("child Cancel leaked into its parent")
	}
}

func Test_cancelSource_context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewCancelSource(ctx)

	if src.Canceled() {
		t.Error("source cancelled before its context")
	}
	cancel()
	if !src.Canceled() {
		t.Error("context cancellation must cancel the source")
	}
}

func Test_neverCanceled(t *testing.T) {
	if NeverCanceled.Canceled() {
		t.Error("NeverCanceled must report false")
	}
}

func Test_contextToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tok := ContextToken(ctx)

	if tok.Canceled() {
		t.Error("token cancelled before its context")
	}
	cancel()
	if !tok.Canceled() {
		t.Error("token must reflect context cancellation")
	}
}
