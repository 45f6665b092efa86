package models

// Review is an alumni's review of a program they attended
type Review struct {
	ID        string `json:"id"`
	ProgramID string `json:"program"`
	AlumniID  int    `json:"alumni"`
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// AddReviewRequest is the body of POST /programs/{id}/reviews/add/
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"required,min=10,max=5000"`
}
