package dto

type CreateSubTaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=120"`
}

// SetSubTaskRequest is the JSON body for PUT /todos/:id/subtasks/:subId.
// Only the completion flag is mutable on a subtask.
type SetSubTaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type SubTaskResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	TodoID    int64  `json:"todo_id"`
}

// SuggestSubTasksResponse carries AI-suggested subtask titles.
type SuggestSubTasksResponse struct {
	Suggestions []string `json:"suggestions"`
}
