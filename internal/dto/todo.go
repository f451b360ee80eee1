package dto

type CreateTodoRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=120"`
	Completed bool   `json:"completed"`
	FolderID  *int64 `json:"folder_id"`
}

// UpdateTodoRequest is a partial update: nil = не менять, значение = поставить.
type UpdateTodoRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=120"`
	Completed *bool   `json:"completed"`
	FolderID  *int64  `json:"folder_id"`
}

type TodoResponse struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Completed bool              `json:"completed"`
	UserID    int64             `json:"user_id"`
	FolderID  *int64            `json:"folder_id"`
	SubTasks  []SubTaskResponse `json:"subtasks"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
