package service

import (
	"context"
	"fmt"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
)

// AssistantPlaceholder is returned until a language-model backend is wired in.
const AssistantPlaceholder = "AI integration not implemented yet"

type AssistantReply struct {
	AssistantMessage string               `json:"assistantMessage"`
	Tasks            []domain.TaskSummary `json:"tasks"`
}

// AssistantService answers chat messages with the user's task context. It never mutates tasks.
type AssistantService struct {
	tasks TaskStore
}

func NewAssistantService(tasks TaskStore) *AssistantService {
	return &AssistantService{tasks: tasks}
}

func (s *AssistantService) Handle(ctx context.Context, owner domain.Principal, message string) (*AssistantReply, error) {
	tasks, err := s.tasks.ListByUser(ctx, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("load task context: %w", err)
	}

	summaries := make([]domain.TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		summaries = append(summaries, domain.TaskSummary{ID: t.ID, Title: t.Title, Status: t.Status})
	}

	logger.WithContext(ctx).Debug("assistant message", "user_id", owner.UserID, "message_len", len(message), "tasks", len(summaries))
	return &AssistantReply{
		AssistantMessage: AssistantPlaceholder,
		Tasks:            summaries,
	}, nil
}
