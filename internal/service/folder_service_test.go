package service

import (
	"context"
	"testing"

	"github.com/FrozenSaturn/todo-react-native/internal/repo/repotest"
)

func TestFolderListNestsTodos(t *testing.T) {
	todos := repotest.NewMemTodoRepo()
	folders := repotest.NewMemFolderRepo()
	folderSvc := NewFolderService(folders, todos)
	todoSvc := NewTodoService(todos, folders, nil)
	ctx := context.Background()

	work, _ := folderSvc.Create(ctx, 1, "work")
	home, _ := folderSvc.Create(ctx, 1, "home")
	if _, err := todoSvc.Create(ctx, 1, "report", false, &work.ID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := todoSvc.Create(ctx, 1, "dishes", false, &home.ID); err != nil {
		t.Fatalf("create: %v", err)
	}
	// A loose todo stays out of every folder.
	if _, err := todoSvc.Create(ctx, 1, "loose", false, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := folderSvc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("unexpected folder count: %d", len(list))
	}
	if len(list[0].Todos) != 1 || list[0].Todos[0].Title != "report" {
		t.Fatalf("work folder todos wrong: %+v", list[0].Todos)
	}
	if len(list[1].Todos) != 1 || list[1].Todos[0].Title != "dishes" {
		t.Fatalf("home folder todos wrong: %+v", list[1].Todos)
	}
}

func TestFolderListScopedToUser(t *testing.T) {
	todos := repotest.NewMemTodoRepo()
	folders := repotest.NewMemFolderRepo()
	svc := NewFolderService(folders, todos)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "alice's"); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("user 2 sees user 1's folders: %+v", list)
	}
}
