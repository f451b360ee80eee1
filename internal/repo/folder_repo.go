package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
)

// FolderRepo provides folder persistence. Folders have no update or
// delete operations.
type FolderRepo interface {
	Create(ctx context.Context, userID int64, title string) (dom.Folder, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Folder, error)
	List(ctx context.Context, userID int64) ([]dom.Folder, error)
}

type PGFolderRepo struct {
	db *pgxpool.Pool
}

func NewPGFolderRepo(db *pgxpool.Pool) *PGFolderRepo {
	return &PGFolderRepo{db: db}
}

func (r *PGFolderRepo) Create(ctx context.Context, userID int64, title string) (dom.Folder, error) {
	query := `
		INSERT INTO folders (title, user_id)
		VALUES ($1, $2)
		RETURNING id, title, user_id`
	var f dom.Folder
	err := r.db.QueryRow(ctx, query, title, userID).Scan(&f.ID, &f.Title, &f.UserID)
	return f, err
}

// GetByID returns the folder only if it belongs to userID; otherwise
// pgx.ErrNoRows, так что чужая папка неотличима от несуществующей.
func (r *PGFolderRepo) GetByID(ctx context.Context, userID, id int64) (dom.Folder, error) {
	var f dom.Folder
	err := r.db.QueryRow(ctx,
		`SELECT id, title, user_id FROM folders WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&f.ID, &f.Title, &f.UserID)
	return f, err
}

func (r *PGFolderRepo) List(ctx context.Context, userID int64) ([]dom.Folder, error) {
	query := `SELECT id, title, user_id FROM folders WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Folder
	for rows.Next() {
		var f dom.Folder
		if err := rows.Scan(&f.ID, &f.Title, &f.UserID); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
