// Package repotest provides in-memory implementations of the repo
// interfaces for tests. They mirror the Postgres repos' ownership
// semantics: a row owned by someone else reads as pgx.ErrNoRows.
package repotest

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
)

type MemUserRepo struct {
	Users  map[string]dom.User
	nextID int64
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{Users: make(map[string]dom.User)}
}

func (r *MemUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	u, ok := r.Users[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) Create(_ context.Context, email, passwordHash, displayName string) (dom.User, error) {
	if _, ok := r.Users[email]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Email: email, DisplayName: displayName, PasswordHash: passwordHash}
	r.Users[email] = u
	return u, nil
}

type MemFolderRepo struct {
	Folders map[int64]dom.Folder
	nextID  int64
}

func NewMemFolderRepo() *MemFolderRepo {
	return &MemFolderRepo{Folders: make(map[int64]dom.Folder)}
}

func (r *MemFolderRepo) Create(_ context.Context, userID int64, title string) (dom.Folder, error) {
	r.nextID++
	f := dom.Folder{ID: r.nextID, Title: title, UserID: userID}
	r.Folders[f.ID] = f
	return f, nil
}

func (r *MemFolderRepo) GetByID(_ context.Context, userID, id int64) (dom.Folder, error) {
	f, ok := r.Folders[id]
	if !ok || f.UserID != userID {
		return dom.Folder{}, pgx.ErrNoRows
	}
	return f, nil
}

func (r *MemFolderRepo) List(_ context.Context, userID int64) ([]dom.Folder, error) {
	var out []dom.Folder
	for _, f := range r.Folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type MemTodoRepo struct {
	Todos    map[int64]dom.Todo
	SubTasks map[int64]dom.SubTask
	nextID   int64
}

func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{
		Todos:    make(map[int64]dom.Todo),
		SubTasks: make(map[int64]dom.SubTask),
	}
}

func (r *MemTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.nextID++
	t.ID = r.nextID
	t.SubTasks = nil
	r.Todos[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	t, ok := r.Todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.SubTasks = r.subsOf(id)
	return t, nil
}

func (r *MemTodoRepo) List(_ context.Context, userID int64, skip, limit int) ([]dom.Todo, error) {
	var all []dom.Todo
	for _, t := range r.Todos {
		if t.UserID == userID {
			t.SubTasks = r.subsOf(t.ID)
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemTodoRepo) Update(_ context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	t, ok := r.Todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Title = patch.Title
	t.Completed = patch.Completed
	t.FolderID = patch.FolderID
	r.Todos[id] = t
	return t, nil
}

func (r *MemTodoRepo) Delete(_ context.Context, userID, id int64) error {
	t, ok := r.Todos[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.Todos, id)
	// FK cascade
	for sid, s := range r.SubTasks {
		if s.TodoID == id {
			delete(r.SubTasks, sid)
		}
	}
	return nil
}

func (r *MemTodoRepo) CreateSubTask(_ context.Context, todoID int64, title string) (dom.SubTask, error) {
	r.nextID++
	s := dom.SubTask{ID: r.nextID, Title: title, TodoID: todoID}
	r.SubTasks[s.ID] = s
	return s, nil
}

func (r *MemTodoRepo) SetSubTaskDone(_ context.Context, userID, todoID, subID int64, completed bool) (dom.SubTask, error) {
	t, ok := r.Todos[todoID]
	if !ok || t.UserID != userID {
		return dom.SubTask{}, pgx.ErrNoRows
	}
	s, ok := r.SubTasks[subID]
	if !ok || s.TodoID != todoID {
		return dom.SubTask{}, pgx.ErrNoRows
	}
	s.Completed = completed
	r.SubTasks[subID] = s
	return s, nil
}

func (r *MemTodoRepo) SyncCompletion(_ context.Context, userID, todoID int64) error {
	t, ok := r.Todos[todoID]
	if !ok || t.UserID != userID {
		return nil
	}
	if done, applies := dom.AllDone(r.subsOf(todoID)); applies && done != t.Completed {
		t.Completed = done
		r.Todos[todoID] = t
	}
	return nil
}

func (r *MemTodoRepo) subsOf(todoID int64) []dom.SubTask {
	var out []dom.SubTask
	for _, s := range r.SubTasks {
		if s.TodoID == todoID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
