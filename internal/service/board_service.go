package service

import (
	"context"
	"fmt"
	"strings"

	"assist_backend/internal/domain"
)

// BoardService manages the boards a user groups their work into.
type BoardService struct {
	boards BoardStore
	audit  *AuditService
}

func NewBoardService(boards BoardStore, audit *AuditService) *BoardService {
	return &BoardService{boards: boards, audit: audit}
}

type createBoardInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (s *BoardService) Create(ctx context.Context, owner domain.Principal, name string) (*domain.Board, error) {
	in := createBoardInput{Name: strings.TrimSpace(name)}
	if err := check(in); err != nil {
		return nil, err
	}

	b := &domain.Board{UserID: owner.UserID, Name: in.Name}
	if err := s.boards.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	s.audit.LogBoard(ctx, b)
	return b, nil
}

func (s *BoardService) List(ctx context.Context, owner domain.Principal) ([]*domain.Board, error) {
	return s.boards.ListByUser(ctx, owner.UserID)
}
