package service

import (
	"bytes"
	"strings"
	"testing"

	"lernbuddy/internal/models"
)

func TestRelayForwardsStreamUnmodified(t *testing.T) {
	upstream := "data: {\"choices\":[{\"delta\":{\"content\":\"Hal\"}}]}\n" +
		"\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo!\"}}]}\n" +
		"\n" +
		"data: [DONE]\n" +
		"\n"

	var out bytes.Buffer
	svc := &ChatService{}
	reply := svc.relay(strings.NewReader(upstream), &out)

	if out.String() != upstream {
		t.Errorf("Relayed stream = %q, want unmodified upstream", out.String())
	}
	if reply != "Hallo!" {
		t.Errorf("Collected reply = %q, want %q", reply, "Hallo!")
	}
}

func TestRelayToleratesNonJSONLines(t *testing.T) {
	upstream := ": keep-alive\n" +
		"data: not json\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n" +
		"data: [DONE]\n"

	var out bytes.Buffer
	svc := &ChatService{}
	reply := svc.relay(strings.NewReader(upstream), &out)

	if out.String() != upstream {
		t.Errorf("Relayed stream = %q, want unmodified upstream", out.String())
	}
	if reply != "Hi" {
		t.Errorf("Collected reply = %q, want %q", reply, "Hi")
	}
}

func TestLatestLearnerMessage(t *testing.T) {
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "Hallo"},
		{Role: models.RoleAssistant, Content: "Hallo Mia!"},
		{Role: models.RoleUser, Content: "Was sind Brüche?"},
		{Role: models.RoleAssistant, Content: "Gute Frage!"},
		{Role: models.RoleUser, Content: "ich weiß nicht"},
	}

	last, turns := latestLearnerMessage(messages)
	if last != "ich weiß nicht" {
		t.Errorf("last = %q, want the final learner message", last)
	}
	if turns != 3 {
		t.Errorf("turns = %d, want 3", turns)
	}
}

func TestLatestLearnerMessageEmpty(t *testing.T) {
	last, turns := latestLearnerMessage(nil)
	if last != "" || turns != 0 {
		t.Errorf("latestLearnerMessage(nil) = (%q, %d), want empty", last, turns)
	}
}
