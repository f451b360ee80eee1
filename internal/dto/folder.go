package dto

type CreateFolderRequest struct {
	Title string `json:"title" binding:"required,min=1,max=120"`
}

type FolderResponse struct {
	ID     int64          `json:"id"`
	Title  string         `json:"title"`
	UserID int64          `json:"user_id"`
	Todos  []TodoResponse `json:"todos"`
}

type ListFoldersResponse struct {
	Items []FolderResponse `json:"items"`
}
