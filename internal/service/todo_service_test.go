package service

import (
	"context"
	"errors"
	"testing"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
	"github.com/FrozenSaturn/todo-react-native/internal/repo/repotest"
)

func newTodoServiceUnderTest() (*TodoService, *repotest.MemTodoRepo, *repotest.MemFolderRepo) {
	todos := repotest.NewMemTodoRepo()
	folders := repotest.NewMemFolderRepo()
	return NewTodoService(todos, folders, nil), todos, folders
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _, _ := newTodoServiceUnderTest()
	ctx := context.Background()

	const alice, bob = int64(1), int64(2)
	created, err := svc.Create(ctx, alice, "alice's task", false, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetByID(ctx, bob, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("read: expected ErrNotFound, got %v", err)
	}
	title := "stolen"
	if _, err := svc.Update(ctx, bob, created.ID, &title, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Delete(ctx, bob, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddSubTask(ctx, bob, created.ID, "sneaky"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("add subtask: expected ErrNotFound, got %v", err)
	}

	// The owner is unaffected.
	got, err := svc.GetByID(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if got.Title != "alice's task" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
}

func TestCreateChecksFolderOwnership(t *testing.T) {
	svc, _, folders := newTodoServiceUnderTest()
	ctx := context.Background()

	f, err := folders.Create(ctx, 1, "alice's folder")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if _, err := svc.Create(ctx, 2, "cross-user attach", false, &f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, 1, "own folder attach", false, &f.ID); err != nil {
		t.Fatalf("owner attach failed: %v", err)
	}
}

func TestPartialUpdate(t *testing.T) {
	svc, _, folders := newTodoServiceUnderTest()
	ctx := context.Background()

	f, _ := folders.Create(ctx, 1, "work")
	created, err := svc.Create(ctx, 1, "write report", false, &f.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := true
	got, err := svc.Update(ctx, 1, created.ID, nil, &done, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Completed {
		t.Fatalf("completed not applied")
	}
	if got.Title != "write report" {
		t.Fatalf("title changed by completed-only patch: %q", got.Title)
	}
	if got.FolderID == nil || *got.FolderID != f.ID {
		t.Fatalf("folder changed by completed-only patch: %v", got.FolderID)
	}
}

func TestUpdateChecksNewFolderOwnership(t *testing.T) {
	svc, _, folders := newTodoServiceUnderTest()
	ctx := context.Background()

	other, _ := folders.Create(ctx, 2, "bob's folder")
	created, _ := svc.Create(ctx, 1, "task", false, nil)

	if _, err := svc.Update(ctx, 1, created.ID, nil, nil, &other.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDerivedCompletion(t *testing.T) {
	svc, _, _ := newTodoServiceUnderTest()
	ctx := context.Background()

	todo, _ := svc.Create(ctx, 1, "plan party", false, nil)
	var subs []dom.SubTask
	for _, title := range []string{"book venue", "call caterer", "send invites"} {
		st, err := svc.AddSubTask(ctx, 1, todo.ID, title)
		if err != nil {
			t.Fatalf("add subtask: %v", err)
		}
		subs = append(subs, st)
	}

	// Completing all three flips the parent to done.
	for _, st := range subs {
		if _, err := svc.SetSubTaskDone(ctx, 1, todo.ID, st.ID, true); err != nil {
			t.Fatalf("set done: %v", err)
		}
	}
	got, _ := svc.GetByID(ctx, 1, todo.ID)
	if !got.Completed {
		t.Fatalf("parent not derived to completed")
	}

	// Un-completing any one flips it back.
	if _, err := svc.SetSubTaskDone(ctx, 1, todo.ID, subs[1].ID, false); err != nil {
		t.Fatalf("unset done: %v", err)
	}
	got, _ = svc.GetByID(ctx, 1, todo.ID)
	if got.Completed {
		t.Fatalf("parent not derived back to incomplete")
	}
}

func TestZeroSubtasksFlagIndependent(t *testing.T) {
	svc, _, _ := newTodoServiceUnderTest()
	ctx := context.Background()

	todo, _ := svc.Create(ctx, 1, "standalone", false, nil)
	done := true
	got, err := svc.Update(ctx, 1, todo.ID, nil, &done, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Completed {
		t.Fatalf("flag not settable on todo without subtasks")
	}
}

func TestSetSubTaskWrongParent(t *testing.T) {
	svc, _, _ := newTodoServiceUnderTest()
	ctx := context.Background()

	a, _ := svc.Create(ctx, 1, "a", false, nil)
	b, _ := svc.Create(ctx, 1, "b", false, nil)
	st, _ := svc.AddSubTask(ctx, 1, a.ID, "sub of a")

	if _, err := svc.SetSubTaskDone(ctx, 1, b.ID, st.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	svc, repo, _ := newTodoServiceUnderTest()
	ctx := context.Background()

	todo, _ := svc.Create(ctx, 1, "doomed", false, nil)
	s1, _ := svc.AddSubTask(ctx, 1, todo.ID, "one")
	s2, _ := svc.AddSubTask(ctx, 1, todo.ID, "two")

	deleted, err := svc.Delete(ctx, 1, todo.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(deleted.SubTasks) != 2 {
		t.Fatalf("deleted todo should carry its subtasks, got %d", len(deleted.SubTasks))
	}
	if _, err := svc.GetByID(ctx, 1, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("todo still fetchable after delete: %v", err)
	}
	for _, id := range []int64{s1.ID, s2.ID} {
		if _, ok := repo.SubTasks[id]; ok {
			t.Fatalf("subtask %d survived cascade", id)
		}
	}
}

func TestListPagination(t *testing.T) {
	svc, _, _ := newTodoServiceUnderTest()
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three", "four"} {
		if _, err := svc.Create(ctx, 1, title, false, nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.List(ctx, 1, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Title != "two" || page[1].Title != "three" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
