package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
)

// TodoRepo provides todo and subtask persistence. Every query is
// filtered by the owning user, so a row that exists but belongs to
// someone else surfaces as pgx.ErrNoRows.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64, skip, limit int) ([]dom.Todo, error)
	Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) error

	CreateSubTask(ctx context.Context, todoID int64, title string) (dom.SubTask, error)
	SetSubTaskDone(ctx context.Context, userID, todoID, subID int64, completed bool) (dom.SubTask, error)
	SyncCompletion(ctx context.Context, userID, todoID int64) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, completed, user_id, folder_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, completed, user_id, folder_id`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.Title, t.Completed, t.UserID, t.FolderID).Scan(
		&out.ID, &out.Title, &out.Completed, &out.UserID, &out.FolderID,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `
		SELECT id, title, completed, user_id, folder_id
		FROM todos WHERE id = $1 AND user_id = $2`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.Title, &t.Completed, &t.UserID, &t.FolderID,
	)
	if err != nil {
		return dom.Todo{}, err
	}
	subs, err := r.listSubTasks(ctx, []int64{t.ID})
	if err != nil {
		return dom.Todo{}, err
	}
	t.SubTasks = subs[t.ID]
	return t, nil
}

// List returns the user's todos in insertion order with their
// subtasks attached. limit <= 0 means no limit.
func (r *PGTodoRepo) List(ctx context.Context, userID int64, skip, limit int) ([]dom.Todo, error) {
	query := `
		SELECT id, title, completed, user_id, folder_id
		FROM todos WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT NULLIF($3, 0)`
	rows, err := r.db.Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	var ids []int64
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.UserID, &t.FolderID); err != nil {
			return nil, err
		}
		list = append(list, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	subs, err := r.listSubTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].SubTasks = subs[list[i].ID]
	}
	return list, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos SET title = $3, completed = $4, folder_id = $5
		WHERE id = $2 AND user_id = $1
		RETURNING id, title, completed, user_id, folder_id`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, userID, id, patch.Title, patch.Completed, patch.FolderID).Scan(
		&t.ID, &t.Title, &t.Completed, &t.UserID, &t.FolderID,
	)
	return t, err
}

// Delete removes the todo; subtasks go with it via ON DELETE CASCADE.
func (r *PGTodoRepo) Delete(ctx context.Context, userID, id int64) error {
	var deleted int64
	return r.db.QueryRow(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2 RETURNING id`,
		id, userID,
	).Scan(&deleted)
}

func (r *PGTodoRepo) CreateSubTask(ctx context.Context, todoID int64, title string) (dom.SubTask, error) {
	query := `
		INSERT INTO subtasks (title, todo_id)
		VALUES ($1, $2)
		RETURNING id, title, completed, todo_id`
	var s dom.SubTask
	err := r.db.QueryRow(ctx, query, title, todoID).Scan(&s.ID, &s.Title, &s.Completed, &s.TodoID)
	return s, err
}

// SetSubTaskDone flips the completion flag. Ownership is checked via
// the join to the parent todo: wrong owner or wrong parent both come
// back as pgx.ErrNoRows.
func (r *PGTodoRepo) SetSubTaskDone(ctx context.Context, userID, todoID, subID int64, completed bool) (dom.SubTask, error) {
	query := `
		UPDATE subtasks s SET completed = $4
		FROM todos t
		WHERE s.id = $3 AND s.todo_id = $2 AND t.id = s.todo_id AND t.user_id = $1
		RETURNING s.id, s.title, s.completed, s.todo_id`
	var out dom.SubTask
	err := r.db.QueryRow(ctx, query, userID, todoID, subID, completed).Scan(
		&out.ID, &out.Title, &out.Completed, &out.TodoID,
	)
	return out, err
}

// SyncCompletion re-derives todo.completed as the AND of its subtasks
// and persists it only if it differs. A todo with zero subtasks is
// untouched (all_done is NULL). Read and write happen in one
// statement, so two concurrent subtask updates cannot interleave the
// recomputation.
func (r *PGTodoRepo) SyncCompletion(ctx context.Context, userID, todoID int64) error {
	query := `
		UPDATE todos t SET completed = d.all_done
		FROM (SELECT bool_and(completed) AS all_done FROM subtasks WHERE todo_id = $2) d
		WHERE t.id = $2 AND t.user_id = $1
		  AND d.all_done IS NOT NULL
		  AND t.completed IS DISTINCT FROM d.all_done`
	_, err := r.db.Exec(ctx, query, userID, todoID)
	return err
}

// listSubTasks loads subtasks for the given todo ids, keyed by parent.
func (r *PGTodoRepo) listSubTasks(ctx context.Context, todoIDs []int64) (map[int64][]dom.SubTask, error) {
	query := `
		SELECT id, title, completed, todo_id
		FROM subtasks WHERE todo_id = ANY($1)
		ORDER BY id`
	rows, err := r.db.Query(ctx, query, todoIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]dom.SubTask)
	for rows.Next() {
		var s dom.SubTask
		if err := rows.Scan(&s.ID, &s.Title, &s.Completed, &s.TodoID); err != nil {
			return nil, err
		}
		out[s.TodoID] = append(out[s.TodoID], s)
	}
	return out, rows.Err()
}
