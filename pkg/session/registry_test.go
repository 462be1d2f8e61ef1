package session

import (
	"context"
	"testing"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/game"
	mocktransport "github.com/wordwhiz/wordwhiz/pkg/transports/mock"
)

func newTestOrchestrator(t *testing.T, sessionID string) *Orchestrator {
	t.Helper()
	sess, err := game.NewSession(sessionID, words("cat"))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return New(Config{
		Session:     sess,
		Conn:        mocktransport.NewConn("conn-" + sessionID),
		Recognizer:  newFakeSTT(),
		Synthesizer: fakeSynth{},
		Feedback:    fakeFeedback{},
		ChildName:   "Mia",
	})
}

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	orch := newTestOrchestrator(t, "s1")

	if !r.Add("c1", orch) {
		t.Fatalf("add must succeed")
	}
	if r.Count() != 1 {
		t.Fatalf("expected count 1, got %d", r.Count())
	}

	entry, ok := r.Get("s1")
	if !ok || entry.Orch != orch {
		t.Fatalf("get by session id failed")
	}
	entry, ok = r.GetByConn("c1")
	if !ok || entry.SessionID != "s1" {
		t.Fatalf("get by conn id failed")
	}

	r.Remove("s1")
	if r.Count() != 0 {
		t.Fatalf("expected empty registry after remove")
	}
	if _, ok := r.GetByConn("c1"); ok {
		t.Fatalf("conn binding must be cleared on remove")
	}
}

func TestRegistryRejectsDuplicateSession(t *testing.T) {
	r := NewRegistry()
	if !r.Add("c1", newTestOrchestrator(t, "s1")) {
		t.Fatalf("first add must succeed")
	}
	if r.Add("c2", newTestOrchestrator(t, "s1")) {
		t.Fatalf("duplicate session id must be rejected")
	}
	if r.Count() != 1 {
		t.Fatalf("expected count 1, got %d", r.Count())
	}
}

func TestRegistryDrainingRejectsNew(t *testing.T) {
	r := NewRegistry()
	r.SetDraining(true)
	if r.Add("c1", newTestOrchestrator(t, "s1")) {
		t.Fatalf("draining registry must reject new sessions")
	}
}

func TestRegistryRemoveByConn(t *testing.T) {
	r := NewRegistry()
	r.Add("c1", newTestOrchestrator(t, "s1"))
	r.RemoveByConn("c1")
	if r.Count() != 0 {
		t.Fatalf("remove by conn must drop the session")
	}
}

func TestRegistryCloseAllAndWaitForEmpty(t *testing.T) {
	r := NewRegistry()
	r.Add("c1", newTestOrchestrator(t, "s1"))
	r.Add("c2", newTestOrchestrator(t, "s2"))

	r.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if !r.WaitForEmpty(ctx, 10*time.Millisecond) {
		t.Fatalf("registry never emptied")
	}
}
