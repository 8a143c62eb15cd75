package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/apperror"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/pagination"
)

func TestTaskAssignmentScenario(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	a := e.register(t, "a@x.com", "A")
	b := e.register(t, "b@x.com", "B")
	c := e.register(t, "c@x.com", "C")

	p := e.project(t, a, "P")

	t1 := e.task(t, a, dto.CreateTaskRequest{Title: "T1", ProjectID: &p.ID})
	if t1.AssigneeID == nil || *t1.AssigneeID != a {
		t.Fatalf("expected T1 assigned to its creator, got %v", t1.AssigneeID)
	}
	if t1.Status != models.StatusTodo || t1.Priority != models.PriorityMedium {
		t.Fatalf("expected TODO/MEDIUM defaults, got %s/%s", t1.Status, t1.Priority)
	}
	if t1.ProjectName == nil || *t1.ProjectName != "P" {
		t.Fatalf("expected project name P, got %v", t1.ProjectName)
	}
	if t1.AssigneeName == nil || *t1.AssigneeName != "A" {
		t.Fatalf("expected assignee name A, got %v", t1.AssigneeName)
	}

	e.assign(t, a, p.ID, b)

	t2 := e.task(t, a, dto.CreateTaskRequest{Title: "T2", ProjectID: &p.ID, AssigneeID: &b})
	if t2.AssigneeID == nil || *t2.AssigneeID != b {
		t.Fatalf("expected T2 assigned to B, got %v", t2.AssigneeID)
	}

	_, err := e.tasks.Assign(ctx, a, t2.ID, c)
	ferr := errorAs[*apperror.ForbiddenError](t, err)
	if ferr.ID != p.ID.String() {
		t.Fatalf("expected forbidden error naming project %s, got %s", p.ID, ferr.ID)
	}

	_, err = e.tasks.Create(ctx, a, dto.CreateTaskRequest{Title: "T3", AssigneeID: &c}, &p.ID)
	errorAs[*apperror.ForbiddenError](t, err)

	// Outside a project any existing user may be assigned.
	free := e.task(t, a, dto.CreateTaskRequest{Title: "Free", AssigneeID: &c})
	if free.ProjectID != nil || *free.AssigneeID != c {
		t.Fatalf("unexpected free task %+v", free)
	}

	_, err = e.tasks.Create(ctx, a, dto.CreateTaskRequest{Title: "Ghost", AssigneeID: ptr(uuid.New())}, nil)
	errorAs[*apperror.NotFoundError](t, err)
}

func TestCreateTaskRequiresProjectAccess(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	owner := e.register(t, "owner@x.com", "Owner")
	outsider := e.register(t, "out@x.com", "Outsider")
	p := e.project(t, owner, "P")

	_, err := e.tasks.Create(ctx, outsider, dto.CreateTaskRequest{Title: "Sneaky"}, &p.ID)
	errorAs[*apperror.ForbiddenError](t, err)

	_, err = e.tasks.Create(ctx, owner, dto.CreateTaskRequest{Title: "Lost"}, ptr(uuid.New()))
	errorAs[*apperror.NotFoundError](t, err)
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()
	owner := e.register(t, "owner@x.com", "Owner")

	tests := []struct {
		name  string
		req   dto.CreateTaskRequest
		field string
	}{
		{name: "blank title", req: dto.CreateTaskRequest{Title: "  "}, field: "title"},
		{name: "bad status", req: dto.CreateTaskRequest{Title: "x", Status: ptr("BLOCKED")}, field: "status"},
		{name: "bad priority", req: dto.CreateTaskRequest{Title: "x", Priority: ptr("URGENT")}, field: "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.tasks.Create(ctx, owner, tt.req, nil)
			verr := errorAs[*apperror.ValidationError](t, err)
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("expected %s field error, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestTaskVisibility(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	owner := e.register(t, "owner@x.com", "Owner")
	member := e.register(t, "member@x.com", "Member")
	assignee := e.register(t, "assignee@x.com", "Assignee")
	outsider := e.register(t, "out@x.com", "Outsider")

	p := e.project(t, owner, "P")
	e.assign(t, owner, p.ID, member)
	e.assign(t, owner, p.ID, assignee)

	task := e.task(t, member, dto.CreateTaskRequest{Title: "Shared", ProjectID: &p.ID, AssigneeID: &assignee})
	if err := e.projects.RemoveUser(ctx, owner, p.ID, assignee); err != nil {
		t.Fatal(err)
	}

	for _, caller := range []uuid.UUID{owner, member, assignee} {
		if _, err := e.tasks.Get(ctx, caller, task.ID); err != nil {
			t.Fatalf("Get as %s returned error: %v", caller, err)
		}
	}

	_, err := e.tasks.Get(ctx, outsider, task.ID)
	errorAs[*apperror.ForbiddenError](t, err)

	_, err = e.tasks.Get(ctx, owner, uuid.New())
	errorAs[*apperror.NotFoundError](t, err)
}

func TestChangeStatusAllowsEveryTransition(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	owner := e.register(t, "owner@x.com", "Owner")
	task := e.task(t, owner, dto.CreateTaskRequest{Title: "Cycle"})

	steps := []models.TaskStatus{
		models.StatusInProgress, models.StatusDone, models.StatusTodo,
		models.StatusDone, models.StatusInProgress, models.StatusTodo,
	}
	for _, want := range steps {
		got, err := e.tasks.ChangeStatus(ctx, owner, task.ID, string(want))
		if err != nil {
			t.Fatalf("ChangeStatus to %s returned error: %v", want, err)
		}
		if got.Status != want {
			t.Fatalf("expected status %s, got %s", want, got.Status)
		}
	}

	_, err := e.tasks.ChangeStatus(ctx, owner, task.ID, "ARCHIVED")
	errorAs[*apperror.ValidationError](t, err)
}

func TestUpdateTaskMergesFields(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	owner := e.register(t, "owner@x.com", "Owner")
	other := e.register(t, "other@x.com", "Other")
	p := e.project(t, owner, "P")
	task := e.task(t, owner, dto.CreateTaskRequest{Title: "Draft", Description: ptr("first"), Priority: ptr("low")})

	updated, err := e.tasks.Update(ctx, owner, task.ID, dto.UpdateTaskRequest{Title: ptr("Final"), ProjectID: &p.ID})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Final" || updated.Priority != models.PriorityLow {
		t.Fatalf("unexpected merge %+v", updated)
	}
	if updated.Description == nil || *updated.Description != "first" {
		t.Fatalf("expected description kept, got %v", updated.Description)
	}
	if updated.ProjectID == nil || *updated.ProjectID != p.ID {
		t.Fatalf("expected project %s, got %v", p.ID, updated.ProjectID)
	}

	_, err = e.tasks.Update(ctx, owner, task.ID, dto.UpdateTaskRequest{AssigneeID: &other})
	errorAs[*apperror.ForbiddenError](t, err)
}

func TestUpdateTaskClearsOptionalFields(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	owner := e.register(t, "owner@x.com", "Owner")
	p := e.project(t, owner, "P")
	due := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	task := e.task(t, owner, dto.CreateTaskRequest{Title: "Draft", DueDate: &due, ProjectID: &p.ID})
	if task.DueDate == nil || task.ProjectID == nil || task.AssigneeID == nil {
		t.Fatalf("expected optional fields set, got %+v", task)
	}

	_, err := e.tasks.Update(ctx, owner, task.ID, dto.UpdateTaskRequest{DueDate: &due, ClearDueDate: true})
	verr := errorAs[*apperror.ValidationError](t, err)
	if _, ok := verr.Fields["dueDate"]; !ok {
		t.Fatalf("expected dueDate field error, got %v", verr.Fields)
	}

	updated, err := e.tasks.Update(ctx, owner, task.ID, dto.UpdateTaskRequest{
		ClearDueDate:  true,
		ClearProject:  true,
		ClearAssignee: true,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.DueDate != nil || updated.ProjectID != nil || updated.AssigneeID != nil {
		t.Fatalf("expected cleared fields, got due=%v project=%v assignee=%v", updated.DueDate, updated.ProjectID, updated.AssigneeID)
	}
	if updated.Title != "Draft" {
		t.Fatalf("expected title kept, got %q", updated.Title)
	}

	got, err := e.tasks.Get(ctx, owner, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate != nil || got.ProjectID != nil || got.AssigneeID != nil {
		t.Fatalf("clears were not persisted: %+v", got)
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	owner := e.register(t, "owner@x.com", "Owner")
	member := e.register(t, "member@x.com", "Member")
	p := e.project(t, owner, "P")
	e.assign(t, owner, p.ID, member)

	byOwner := e.task(t, owner, dto.CreateTaskRequest{Title: "Owner's", ProjectID: &p.ID})
	byMember := e.task(t, member, dto.CreateTaskRequest{Title: "Member's", ProjectID: &p.ID})

	err := e.tasks.Delete(ctx, member, byOwner.ID)
	errorAs[*apperror.ForbiddenError](t, err)

	if err := e.tasks.Delete(ctx, owner, byMember.ID); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}
	if err := e.tasks.Delete(ctx, owner, byOwner.ID); err != nil {
		t.Fatalf("creator delete returned error: %v", err)
	}

	err = e.tasks.Delete(ctx, owner, byOwner.ID)
	errorAs[*apperror.NotFoundError](t, err)
}

func TestTaskListings(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	a := e.register(t, "a@x.com", "A")
	b := e.register(t, "b@x.com", "B")
	p := e.project(t, a, "P")
	e.assign(t, a, p.ID, b)

	e.task(t, a, dto.CreateTaskRequest{Title: "Write report", ProjectID: &p.ID, Priority: ptr("HIGH")})
	e.task(t, a, dto.CreateTaskRequest{Title: "Review report", ProjectID: &p.ID, AssigneeID: &b})
	e.task(t, b, dto.CreateTaskRequest{Title: "Book flights", Status: ptr("DONE")})

	byProject, err := e.tasks.ListByProject(ctx, b, p.ID, pagination.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if byProject.Total != 2 {
		t.Fatalf("expected 2 project tasks, got %d", byProject.Total)
	}

	owned, err := e.tasks.ListOwned(ctx, a, pagination.Request{Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	if owned.Total != 2 || len(owned.Items) != 1 || owned.TotalPages != 2 {
		t.Fatalf("unexpected owned page %+v", owned)
	}

	assigned, err := e.tasks.ListAssigned(ctx, b, "REPORT", pagination.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if assigned.Total != 1 || assigned.Items[0].Title != "Review report" {
		t.Fatalf("unexpected assigned tasks %+v", assigned.Items)
	}

	mine, err := e.tasks.ListForUser(ctx, b, TaskQuery{}, pagination.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if mine.Total != 2 {
		t.Fatalf("expected 2 tasks for B, got %d", mine.Total)
	}

	done, err := e.tasks.ListForUser(ctx, b, TaskQuery{Status: "done"}, pagination.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if done.Total != 1 || done.Items[0].Title != "Book flights" {
		t.Fatalf("unexpected done tasks %+v", done.Items)
	}

	high, err := e.tasks.ListForUser(ctx, a, TaskQuery{Priority: "HIGH"}, pagination.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if high.Total != 1 {
		t.Fatalf("expected 1 high priority task, got %d", high.Total)
	}

	_, err = e.tasks.ListForUser(ctx, a, TaskQuery{Status: "nope"}, pagination.Request{})
	errorAs[*apperror.ValidationError](t, err)
}

func TestTaskStats(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	a := e.register(t, "a@x.com", "A")
	b := e.register(t, "b@x.com", "B")

	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)

	e.task(t, a, dto.CreateTaskRequest{Title: "late", DueDate: &past})
	e.task(t, a, dto.CreateTaskRequest{Title: "late but done", DueDate: &past, Status: ptr("DONE")})
	e.task(t, a, dto.CreateTaskRequest{Title: "upcoming", DueDate: &future, Status: ptr("IN_PROGRESS")})
	e.task(t, b, dto.CreateTaskRequest{Title: "for a", AssigneeID: &a})
	e.task(t, b, dto.CreateTaskRequest{Title: "b only"})

	stats, err := e.tasks.Stats(ctx, a)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	want := dto.TaskStats{Total: 4, Todo: 2, InProgress: 1, Done: 1, Overdue: 1}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}
