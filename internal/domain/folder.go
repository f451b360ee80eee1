package domain

// Folder groups a user's todos. Folders have no delete path.
type Folder struct {
	ID     int64
	Title  string
	UserID int64

	Todos []Todo
}
