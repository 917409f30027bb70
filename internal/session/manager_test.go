package session

import (
	"context"
	"testing"
	"time"

	"medmind/internal/triage"
)

func TestManagerCreateGetEnd(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create(Profile{PatientName: "Asha", Age: 31, Gender: "female", Language: "English"})
	if s.ID == "" {
		t.Fatalf("session ID should not be empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Profile.PatientName != "Asha" || got.Status != StatusActive {
		t.Fatalf("unexpected session state: %+v", got)
	}

	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("ended status = %q, want %q", ended.Status, StatusEnded)
	}
}

func TestManagerRecordTurnAppendsTranscript(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create(Profile{PatientName: "Asha"})

	state := triage.ConversationState{QuestionsAsked: 1, HasAcknowledged: true}
	if err := m.RecordTurn(s.ID, "my stomach hurts", "How long has this been going on?", state); err != nil {
		t.Fatalf("RecordTurn() error = %v", err)
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Transcript) != 2 {
		t.Fatalf("len(Transcript) = %d, want 2", len(got.Transcript))
	}
	if got.Transcript[0].Role != triage.RoleUser || got.Transcript[1].Role != triage.RoleAssistant {
		t.Fatalf("unexpected transcript roles: %+v", got.Transcript)
	}
	if got.State.QuestionsAsked != 1 || !got.State.HasAcknowledged {
		t.Fatalf("state not stored: %+v", got.State)
	}
}

func TestManagerRecordTurnUnknownSession(t *testing.T) {
	m := NewManager(time.Minute)
	if err := m.RecordTurn("missing", "hi", "hello", triage.ConversationState{}); err != ErrNotFound {
		t.Fatalf("RecordTurn() error = %v, want ErrNotFound", err)
	}
}

func TestManagerGetReturnsClone(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create(Profile{})
	if err := m.RecordTurn(s.ID, "a", "b", triage.ConversationState{}); err != nil {
		t.Fatalf("RecordTurn() error = %v", err)
	}

	got, _ := m.Get(s.ID)
	got.Transcript[0].Text = "mutated"

	again, _ := m.Get(s.ID)
	if again.Transcript[0].Text != "a" {
		t.Fatalf("Transcript[0].Text = %q, want %q", again.Transcript[0].Text, "a")
	}
}

func TestManagerJanitorExpiresInactive(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	s := m.Create(Profile{})

	expired := make(chan string, 1)
	m.SetExpireHook(func(sess *Session) { expired <- sess.ID })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case id := <-expired:
		if id != s.ID {
			t.Fatalf("expired session = %q, want %q", id, s.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("expire hook never fired")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusEnded {
		t.Fatalf("Status = %q, want %q", got.Status, StatusEnded)
	}
}
