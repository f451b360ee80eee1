package dto

import "time"

// ParseTaskRequest is the JSON body for POST /todos/parse.
type ParseTaskRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
}

// ParseTaskResponse is always well-formed: the parser degrades to a
// fallback instead of failing.
type ParseTaskResponse struct {
	Title    string     `json:"title"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
}
