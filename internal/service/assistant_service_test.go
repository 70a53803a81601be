package service

import (
	"context"
	"errors"
	"testing"

	"assist_backend/internal/domain"
	"assist_backend/internal/repository/memory"
)

func TestAssistantHandle(t *testing.T) {
	store := memory.NewTaskStore()
	tasks := NewTaskService(store)
	assistant := NewAssistantService(store)
	ctx := context.Background()

	first, _ := tasks.Create(ctx, alice, CreateTaskInput{Title: "buy milk"})
	_, _ = tasks.Create(ctx, bob, CreateTaskInput{Title: "bob's"})
	second, _ := tasks.Create(ctx, alice, CreateTaskInput{Title: "call mom"})
	_, _ = tasks.Update(ctx, alice, second.ID, UpdateTaskInput{Status: strPtr("done")})

	reply, err := assistant.Handle(ctx, alice, "what is left?")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if reply.AssistantMessage != AssistantPlaceholder {
		t.Fatalf("message = %q", reply.AssistantMessage)
	}
	want := []domain.TaskSummary{
		{ID: first.ID, Title: "buy milk", Status: domain.StatusPending},
		{ID: second.ID, Title: "call mom", Status: "done"},
	}
	if len(reply.Tasks) != len(want) {
		t.Fatalf("tasks = %+v", reply.Tasks)
	}
	for i := range want {
		if reply.Tasks[i] != want[i] {
			t.Fatalf("task %d = %+v; want %+v", i, reply.Tasks[i], want[i])
		}
	}

	after, _ := tasks.List(ctx, alice)
	if len(after) != 2 || after[0].Status != domain.StatusPending {
		t.Fatalf("assistant must not modify tasks: %+v", after)
	}
}

func TestAssistantEmptyContext(t *testing.T) {
	reply, err := NewAssistantService(memory.NewTaskStore()).Handle(context.Background(), alice, "")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if reply.Tasks == nil || len(reply.Tasks) != 0 {
		t.Fatalf("expected empty task list, got %v", reply.Tasks)
	}
}

func TestBoards(t *testing.T) {
	auditStore := memory.NewAuditStore()
	boards := NewBoardService(memory.NewBoardStore(), NewAuditService(auditStore))
	ctx := context.Background()

	if _, err := boards.Create(ctx, alice, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	b, err := boards.Create(ctx, alice, " Home ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Name != "Home" || b.UserID != alice.UserID {
		t.Fatalf("unexpected board: %+v", b)
	}
	_, _ = boards.Create(ctx, bob, "Work")

	list, _ := boards.List(ctx, alice)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("alice boards = %+v", list)
	}

	logs, _ := auditStore.GetRecent(ctx, domain.AuditCategoryBoard, 10)
	if len(logs) != 2 {
		t.Fatalf("expected 2 board audit entries, got %d", len(logs))
	}
}

func TestAdminStatsAndAudit(t *testing.T) {
	users := memory.NewUserStore()
	taskStore := memory.NewTaskStore()
	boardStore := memory.NewBoardStore()
	auditStore := memory.NewAuditStore()
	audit := NewAuditService(auditStore)
	tasks := NewTaskService(taskStore, WithAudit(audit))
	admin := NewAdminService(memory.NewStatsStore(users, taskStore, boardStore), audit)
	ctx := context.Background()

	_ = users.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleUser})
	_ = users.Create(ctx, &domain.User{Email: "b@x.com", Role: domain.RoleUser})
	t1, _ := tasks.Create(ctx, alice, CreateTaskInput{Title: "one"})
	_, _ = tasks.Create(ctx, bob, CreateTaskInput{Title: "two"})
	_, _ = tasks.Update(ctx, alice, t1.ID, UpdateTaskInput{Status: strPtr(domain.StatusDone)})

	stats, err := admin.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.TotalTasks != 2 || stats.TotalBoards != 0 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.TasksByStatus[domain.StatusDone] != 1 || stats.TasksByStatus[domain.StatusPending] != 1 {
		t.Fatalf("unexpected status breakdown: %+v", stats.TasksByStatus)
	}

	all, _ := admin.AuditTrail(ctx, "", 0, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(all))
	}
	bobs, _ := admin.AuditTrail(ctx, "", bob.UserID, 10)
	if len(bobs) != 1 || bobs[0].Action != domain.AuditActionTaskCreate {
		t.Fatalf("unexpected bob trail: %+v", bobs)
	}
}

func TestNilAuditServiceIsNoop(t *testing.T) {
	var audit *AuditService
	audit.LogLogin(context.Background(), 1, "127.0.0.1", "test")
	audit.LogTask(context.Background(), domain.AuditActionTaskCreate, &domain.Task{ID: 1, UserID: 1})
}
