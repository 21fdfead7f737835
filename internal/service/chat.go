package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"lernbuddy/internal/ai"
	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

type chatGateway interface {
	StreamChat(ctx context.Context, messages []ai.Message) (io.ReadCloser, error)
}

// ChatTurn is one learner turn as received from the client
type ChatTurn struct {
	UserID         string
	Messages       []models.ChatMessage
	ResponseTimeMs int64
	MessageLength  int
	ActiveTask     *models.ActiveTask
}

// ChatService runs the full chat pipeline for a turn: engagement tracking,
// competency selection, prompt composition, the streamed LLM call, and the
// follow-up progress bookkeeping.
type ChatService struct {
	profiles   *repository.ProfileRepository
	interests  *repository.InterestRepository
	messages   *repository.MessageRepository
	tasks      *repository.TaskRepository
	engagement *EngagementService
	selector   *SelectorService
	progress   *ProgressService
	gateway    chatGateway
}

// NewChatService creates a new chat service
func NewChatService(
	profiles *repository.ProfileRepository,
	interests *repository.InterestRepository,
	messages *repository.MessageRepository,
	tasks *repository.TaskRepository,
	engagement *EngagementService,
	selector *SelectorService,
	progress *ProgressService,
	gateway chatGateway,
) *ChatService {
	return &ChatService{
		profiles:   profiles,
		interests:  interests,
		messages:   messages,
		tasks:      tasks,
		engagement: engagement,
		selector:   selector,
		progress:   progress,
		gateway:    gateway,
	}
}

// taskCompleteEvent is the trailing event appended to the stream when an
// active task is marked done
type taskCompleteEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
}

// streamChunk is the slice of the gateway's delta chunk format the relay
// needs for collecting the assistant's reply
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamTurn runs one chat turn and relays the gateway's event stream to w.
// An error is only returned before any bytes are written, so the caller can
// still send a proper error response. State lookups and writes around the
// LLM call are best effort: a failed session or progress update is logged
// and never fails the turn.
func (s *ChatService) StreamTurn(ctx context.Context, turn ChatTurn, w io.Writer) error {
	profile, err := s.profiles.GetByID(turn.UserID)
	if err != nil {
		log.Printf("chat: failed to load profile for %s: %v", turn.UserID, err)
	}
	if profile == nil {
		profile = &models.Profile{ID: turn.UserID}
	}

	session, engagementLevel, err := s.engagement.Track(turn.UserID, turn.ResponseTimeMs, turn.MessageLength)
	if err != nil {
		log.Printf("chat: engagement tracking for %s: %v", turn.UserID, err)
	}

	selection, err := s.selector.Select(turn.UserID, profile)
	if err != nil {
		log.Printf("chat: competency selection for %s: %v", turn.UserID, err)
		selection = nil
	}

	interests, err := s.interests.ListByUser(turn.UserID, 3)
	if err != nil {
		log.Printf("chat: failed to load interests for %s: %v", turn.UserID, err)
	}

	params := PromptParams{
		Profile:         profile,
		Interests:       interests,
		EngagementLevel: engagementLevel,
		ActiveTask:      turn.ActiveTask,
	}
	if selection != nil {
		params.Competency = selection.Competency
		params.Progress = selection.Progress
		params.IsPrioritySubject = selection.IsPrioritySubject
	}

	aiMessages := make([]ai.Message, 0, len(turn.Messages)+1)
	aiMessages = append(aiMessages, ai.Message{Role: models.RoleSystem, Content: BuildSystemPrompt(params)})
	for _, m := range turn.Messages {
		aiMessages = append(aiMessages, ai.Message{Role: m.Role, Content: m.Content})
	}

	stream, err := s.gateway.StreamChat(ctx, aiMessages)
	if err != nil {
		return err
	}
	defer stream.Close()

	reply := s.relay(stream, w)

	lastMessage, learnerTurns := latestLearnerMessage(turn.Messages)

	if session != nil {
		if err := s.messages.Create(turn.UserID, session.ID, models.RoleUser, lastMessage); err != nil {
			log.Printf("chat: failed to store learner message: %v", err)
		}
		if reply != "" {
			if err := s.messages.Create(turn.UserID, session.ID, models.RoleAssistant, reply); err != nil {
				log.Printf("chat: failed to store buddy message: %v", err)
			}
		}
	}

	weaknessDetected := false
	if selection != nil && learnerTurns >= minTurnsForProgress {
		outcome, err := s.progress.ApplyTurn(selection.Progress, lastMessage, learnerTurns, engagementLevel)
		if err != nil {
			log.Printf("chat: progress update for %s: %v", turn.UserID, err)
		} else {
			weaknessDetected = outcome.WeaknessDetected
		}
	}

	if turn.ActiveTask != nil && TaskComplete(learnerTurns, weaknessDetected, engagementLevel) {
		if err := s.tasks.MarkCompleted(turn.ActiveTask.ID, turn.UserID); err != nil {
			log.Printf("chat: failed to mark task %s completed: %v", turn.ActiveTask.ID, err)
		} else {
			payload, _ := json.Marshal(taskCompleteEvent{Type: "task_complete", TaskID: turn.ActiveTask.ID})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flush(w)
		}
	}

	return nil
}

// relay forwards the gateway stream to w line by line, flushing at event
// boundaries, while collecting the assistant's full reply from the delta
// chunks.
func (s *ChatService) relay(stream io.Reader, w io.Writer) string {
	var reply strings.Builder

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintf(w, "%s\n", line)
		if line == "" {
			flush(w)
			continue
		}

		data, ok := strings.CutPrefix(line, "data: ")
		if !ok || data == "[DONE]" {
			continue
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) > 0 {
			reply.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("chat: stream interrupted: %v", err)
	}
	flush(w)

	return reply.String()
}

// latestLearnerMessage returns the learner's most recent message and the
// total number of learner turns in the history
func latestLearnerMessage(messages []models.ChatMessage) (string, int) {
	last := ""
	turns := 0
	for _, m := range messages {
		if m.Role == models.RoleUser {
			last = m.Content
			turns++
		}
	}
	return last, turns
}

func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() }); ok {
		f.Flush()
	}
}
