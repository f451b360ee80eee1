package domain

// Domain entities: бизнес-объекты (истина).
// Не зависят от Gin, Postgres, Redis.

// Todo belongs to exactly one user and optionally to one of that
// user's folders. When it has subtasks, Completed is derived from them.
type Todo struct {
	ID        int64
	Title     string
	Completed bool
	UserID    int64
	FolderID  *int64

	SubTasks []SubTask
}

// SubTask has no owner of its own: ownership is transitive through
// the parent todo.
type SubTask struct {
	ID        int64
	Title     string
	Completed bool
	TodoID    int64
}

// AllDone reports whether every subtask is completed. The second
// result is false when there are no subtasks, in which case the
// parent's flag is independent and nothing is derived.
func AllDone(subs []SubTask) (bool, bool) {
	if len(subs) == 0 {
		return false, false
	}
	for _, s := range subs {
		if !s.Completed {
			return false, true
		}
	}
	return true, true
}
