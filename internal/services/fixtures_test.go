package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/testutil"
)

type fakeGoogle struct {
	identity auth.GoogleIdentity
	err      error
}

func (f fakeGoogle) Verify(context.Context, string) (auth.GoogleIdentity, error) {
	return f.identity, f.err
}

type env struct {
	auth     *AuthService
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
}

func newEnv(t *testing.T, google auth.GoogleVerifier) *env {
	t.Helper()

	conn := testutil.NewDB(t)
	stats, err := db.SQLX(conn)
	if err != nil {
		t.Fatalf("sqlx: %v", err)
	}

	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	if google == nil {
		google = fakeGoogle{err: errors.New("google disabled")}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &env{
		auth:     NewAuthService(conn, issuer, google, log),
		users:    NewUserService(conn),
		projects: NewProjectService(conn, log),
		tasks:    NewTaskService(conn, stats, log),
	}
}

func (e *env) register(t *testing.T, email, name string) uuid.UUID {
	t.Helper()

	res, err := e.auth.Register(context.Background(), dto.RegisterRequest{
		Email:       email,
		Password:    "password123",
		DisplayName: name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res.User.ID
}

func (e *env) project(t *testing.T, owner uuid.UUID, name string) *dto.ProjectResponse {
	t.Helper()

	p, err := e.projects.Create(context.Background(), owner, dto.CreateProjectRequest{Name: name})
	if err != nil {
		t.Fatalf("create project %q: %v", name, err)
	}
	return p
}

func (e *env) task(t *testing.T, creator uuid.UUID, req dto.CreateTaskRequest) *dto.TaskResponse {
	t.Helper()

	task, err := e.tasks.Create(context.Background(), creator, req, nil)
	if err != nil {
		t.Fatalf("create task %q: %v", req.Title, err)
	}
	return task
}

func (e *env) assign(t *testing.T, caller, projectID, userID uuid.UUID) {
	t.Helper()

	if _, err := e.projects.AssignUser(context.Background(), caller, projectID, userID); err != nil {
		t.Fatalf("assign user: %v", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}

// errorAs fails the test unless err unwraps to a *E and returns it.
func errorAs[E error](t *testing.T, err error) E {
	t.Helper()

	var target E
	if !errors.As(err, &target) {
		t.Fatalf("expected %T, got %v", target, err)
	}
	return target
}
