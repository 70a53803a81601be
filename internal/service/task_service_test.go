package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"assist_backend/internal/domain"
	"assist_backend/internal/repository/memory"
)

var (
	alice = domain.Principal{UserID: 1, Email: "a@x.com", Role: domain.RoleUser}
	bob   = domain.Principal{UserID: 2, Email: "b@x.com", Role: domain.RoleUser}
)

// stepClock advances by one second on every call.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type recordedEvent struct {
	userID int64
	ev     domain.TaskEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(userID int64, ev domain.TaskEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{userID: userID, ev: ev})
}

func newTestTasks() (*TaskService, *recordingPublisher, *memory.AuditStore) {
	clock := &stepClock{cur: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	auditStore := memory.NewAuditStore()
	svc := NewTaskService(memory.NewTaskStore(),
		WithClock(clock.Now),
		WithEvents(pub),
		WithAudit(NewAuditService(auditStore)),
	)
	return svc, pub, auditStore
}

func TestCreateTask(t *testing.T) {
	svc, pub, _ := newTestTasks()
	ctx := context.Background()
	due := time.Date(2024, 2, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	task, err := svc.Create(ctx, alice, CreateTaskInput{Title: "  buy milk ", Description: strPtr("2%"), DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == 0 || task.UserID != alice.UserID || task.Title != "buy milk" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Status != domain.StatusPending {
		t.Fatalf("status = %q", task.Status)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Fatalf("createdAt %v != updatedAt %v", task.CreatedAt, task.UpdatedAt)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) || task.DueDate.Location() != time.UTC {
		t.Fatalf("due date = %v", task.DueDate)
	}
	if len(pub.events) != 1 || pub.events[0].ev.Type != domain.EventTaskCreated || pub.events[0].userID != alice.UserID {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc, pub, _ := newTestTasks()
	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), alice, CreateTaskInput{Title: title})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("title %q: expected ErrValidation, got %v", title, err)
		}
	}
	if len(pub.events) != 0 {
		t.Fatalf("failed create must not publish")
	}
}

func TestListIsolatedPerOwner(t *testing.T) {
	svc, _, _ := newTestTasks()
	ctx := context.Background()

	for _, title := range []string{"a1", "a2", "a3"} {
		if _, err := svc.Create(ctx, alice, CreateTaskInput{Title: title}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, bob, CreateTaskInput{Title: "b1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	aliceTasks, _ := svc.List(ctx, alice)
	if len(aliceTasks) != 3 {
		t.Fatalf("alice has %d tasks", len(aliceTasks))
	}
	for i, want := range []string{"a1", "a2", "a3"} {
		if aliceTasks[i].Title != want || aliceTasks[i].UserID != alice.UserID {
			t.Fatalf("alice task %d = %+v", i, aliceTasks[i])
		}
	}

	bobTasks, _ := svc.List(ctx, bob)
	if len(bobTasks) != 1 || bobTasks[0].Title != "b1" {
		t.Fatalf("bob tasks = %+v", bobTasks)
	}

	carol := domain.Principal{UserID: 3, Role: domain.RoleUser}
	none, err := svc.List(ctx, carol)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %v, %v", none, err)
	}
}

func TestUpdateTask(t *testing.T) {
	svc, pub, _ := newTestTasks()
	ctx := context.Background()

	task, _ := svc.Create(ctx, alice, CreateTaskInput{Title: "buy milk"})
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	updated, err := svc.Update(ctx, alice, task.ID, UpdateTaskInput{Status: strPtr("done")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != "done" || updated.DueDate != nil {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) || !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("timestamps: created %v/%v updated %v/%v", task.CreatedAt, updated.CreatedAt, task.UpdatedAt, updated.UpdatedAt)
	}

	again, err := svc.Update(ctx, alice, task.ID, UpdateTaskInput{DueDate: &due})
	if err != nil {
		t.Fatalf("update due: %v", err)
	}
	if again.Status != "done" || again.DueDate == nil || !again.DueDate.Equal(due) {
		t.Fatalf("only due date should change: %+v", again)
	}

	stored, _ := svc.Get(ctx, alice, task.ID)
	if stored.Status != "done" || !stored.UpdatedAt.Equal(again.UpdatedAt) {
		t.Fatalf("stored task = %+v", stored)
	}
	if got := pub.events[len(pub.events)-1].ev.Type; got != domain.EventTaskUpdated {
		t.Fatalf("last event = %s", got)
	}
}

func TestUpdateTimestampStrictlyIncreases(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewTaskService(memory.NewTaskStore(), WithClock(func() time.Time { return frozen }))
	ctx := context.Background()

	task, _ := svc.Create(ctx, alice, CreateTaskInput{Title: "t"})
	updated, err := svc.Update(ctx, alice, task.ID, UpdateTaskInput{Status: strPtr("doing")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", task.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateRejectsEmptyStatus(t *testing.T) {
	svc, _, _ := newTestTasks()
	ctx := context.Background()
	task, _ := svc.Create(ctx, alice, CreateTaskInput{Title: "t"})

	if _, err := svc.Update(ctx, alice, task.ID, UpdateTaskInput{Status: strPtr("  ")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOwnershipErrors(t *testing.T) {
	svc, pub, _ := newTestTasks()
	ctx := context.Background()

	task, _ := svc.Create(ctx, alice, CreateTaskInput{Title: "alice's"})
	before := len(pub.events)

	if _, err := svc.Update(ctx, bob, task.ID, UpdateTaskInput{Status: strPtr("done")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update by non-owner: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, bob, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, bob, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("get by non-owner: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Update(ctx, alice, 9999, UpdateTaskInput{Status: strPtr("done")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, alice, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: expected ErrNotFound, got %v", err)
	}

	stored, _ := svc.Get(ctx, alice, task.ID)
	if stored.Status != domain.StatusPending {
		t.Fatalf("task mutated by non-owner: %+v", stored)
	}
	if len(pub.events) != before {
		t.Fatalf("rejected mutations must not publish")
	}
}

func TestUpdateChecksOwnershipBeforeInput(t *testing.T) {
	svc, pub, _ := newTestTasks()
	ctx := context.Background()
	task, _ := svc.Create(ctx, alice, CreateTaskInput{Title: "alice's"})
	before := len(pub.events)

	for _, status := range []string{"", "   ", strings.Repeat("x", maxStatusLen+1)} {
		if _, err := svc.Update(ctx, bob, task.ID, UpdateTaskInput{Status: strPtr(status)}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("foreign task, status %q: expected ErrForbidden, got %v", status, err)
		}
		if _, err := svc.Update(ctx, alice, 9999, UpdateTaskInput{Status: strPtr(status)}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("missing task, status %q: expected ErrNotFound, got %v", status, err)
		}
	}
	if _, err := svc.Update(ctx, alice, task.ID, UpdateTaskInput{Status: strPtr("")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("owner with empty status: expected ErrValidation, got %v", err)
	}

	stored, _ := svc.Get(ctx, alice, task.ID)
	if stored.Status != domain.StatusPending || !stored.UpdatedAt.Equal(task.UpdatedAt) {
		t.Fatalf("rejected update mutated task: %+v", stored)
	}
	if len(pub.events) != before {
		t.Fatalf("rejected updates must not publish")
	}
}

func TestDeleteTask(t *testing.T) {
	svc, pub, auditStore := newTestTasks()
	ctx := context.Background()

	task, _ := svc.Create(ctx, alice, CreateTaskInput{Title: "t"})
	if err := svc.Delete(ctx, alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, alice, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, alice, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	last := pub.events[len(pub.events)-1]
	if last.ev.Type != domain.EventTaskDeleted || last.ev.Task.ID != task.ID {
		t.Fatalf("unexpected delete event: %+v", last)
	}

	logs, _ := auditStore.GetByUserID(ctx, alice.UserID, 10)
	if len(logs) != 2 || logs[0].Action != domain.AuditActionTaskDelete || logs[1].Action != domain.AuditActionTaskCreate {
		t.Fatalf("unexpected audit trail: %+v", logs)
	}
}
