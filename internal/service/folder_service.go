package service

import (
	"context"
	"strings"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
	"github.com/FrozenSaturn/todo-react-native/internal/repo"
)

// FolderService lists and creates a user's folders.
type FolderService struct {
	folders repo.FolderRepo
	todos   repo.TodoRepo
}

func NewFolderService(folders repo.FolderRepo, todos repo.TodoRepo) *FolderService {
	return &FolderService{folders: folders, todos: todos}
}

func (s *FolderService) Create(ctx context.Context, userID int64, title string) (dom.Folder, error) {
	return s.folders.Create(ctx, userID, strings.TrimSpace(title))
}

// List returns the user's folders with their todos (and the todos'
// subtasks) nested.
func (s *FolderService) List(ctx context.Context, userID int64) ([]dom.Folder, error) {
	folders, err := s.folders.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return folders, nil
	}
	all, err := s.todos.List(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	byFolder := make(map[int64][]dom.Todo)
	for _, t := range all {
		if t.FolderID != nil {
			byFolder[*t.FolderID] = append(byFolder[*t.FolderID], t)
		}
	}
	for i := range folders {
		folders[i].Todos = byFolder[folders[i].ID]
	}
	return folders, nil
}
