package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/FrozenSaturn/todo-react-native/internal/cache"
	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
	"github.com/FrozenSaturn/todo-react-native/internal/repo"
	"github.com/FrozenSaturn/todo-react-native/internal/utils"
)

// ErrNotFound covers both true absence and ownership mismatch: another
// user's row must be indistinguishable from a missing one.
var ErrNotFound = errors.New("not found")

type TodoService struct {
	repo    repo.TodoRepo
	folders repo.FolderRepo
	cache   *cache.TodoCache
	sf      singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, folders repo.FolderRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, folders: folders, cache: c}
}

func (s *TodoService) Create(ctx context.Context, userID int64, title string, completed bool, folderID *int64) (dom.Todo, error) {
	title = strings.TrimSpace(title)

	if folderID != nil {
		if err := s.checkFolder(ctx, userID, *folderID); err != nil {
			return dom.Todo{}, err
		}
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		Title:     title,
		Completed: completed,
		UserID:    userID,
		FolderID:  folderID,
	})
	if err != nil {
		// папку могли удалить между проверкой и вставкой
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's todos in insertion order, offset/limited,
// with subtasks nested. limit <= 0 means no limit.
func (s *TodoService) List(ctx context.Context, userID int64, skip, limit int) ([]dom.Todo, error) {
	if skip < 0 {
		skip = 0
	}
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10) + ":" + strconv.Itoa(skip) + ":" + strconv.Itoa(limit)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID, skip, limit); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID, skip, limit)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, skip, limit, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx, userID, skip, limit)
}

func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Update applies only the non-nil fields: absent fields keep their
// current value.
func (s *TodoService) Update(ctx context.Context, userID, id int64, title *string, completed *bool, folderID *int64) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if completed != nil {
		patch.Completed = *completed
	}
	if folderID != nil {
		if err := s.checkFolder(ctx, userID, *folderID); err != nil {
			return dom.Todo{}, err
		}
		patch.FolderID = folderID
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || utils.IsPGForeignKeyViolation(err) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	t.SubTasks = existing.SubTasks
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the todo and, via cascade, its subtasks. Returns the
// deleted todo as it was, subtasks included.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// AddSubTask creates a subtask under a todo the user owns.
func (s *TodoService) AddSubTask(ctx context.Context, userID, todoID int64, title string) (dom.SubTask, error) {
	if _, err := s.repo.GetByID(ctx, userID, todoID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.SubTask{}, ErrNotFound
		}
		return dom.SubTask{}, err
	}
	st, err := s.repo.CreateSubTask(ctx, todoID, strings.TrimSpace(title))
	if err != nil {
		return dom.SubTask{}, err
	}
	s.invalidateCache(ctx, userID)
	return st, nil
}

// SetSubTaskDone updates a subtask's completion flag and re-derives
// the parent todo's flag from the full subtask set.
func (s *TodoService) SetSubTaskDone(ctx context.Context, userID, todoID, subID int64, completed bool) (dom.SubTask, error) {
	st, err := s.repo.SetSubTaskDone(ctx, userID, todoID, subID, completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.SubTask{}, ErrNotFound
		}
		return dom.SubTask{}, err
	}
	if err := s.repo.SyncCompletion(ctx, userID, todoID); err != nil {
		return dom.SubTask{}, err
	}
	s.invalidateCache(ctx, userID)
	return st, nil
}

// checkFolder verifies the folder belongs to userID before a todo is
// attached to it. Mismatch reads as not-found, same as everywhere else.
func (s *TodoService) checkFolder(ctx context.Context, userID, folderID int64) error {
	if _, err := s.folders.GetByID(ctx, userID, folderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
