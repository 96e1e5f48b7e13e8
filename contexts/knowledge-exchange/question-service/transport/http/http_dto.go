package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AskQuestionRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"description"`
	Tags  []string `json:"tags"`
}

type VoteRequest struct {
	Vote string `json:"vote"`
}

type QuestionResponse struct {
	QuestionID string   `json:"question_id"`
	Title      string   `json:"title"`
	Body       string   `json:"description"`
	Tags       []string `json:"tags"`
	OwnerID    string   `json:"owner_id"`
	Upvotes    int      `json:"upvotes"`
	Downvotes  int      `json:"downvotes"`
	Score      int      `json:"score"`
	Views      int      `json:"views"`
	CreatedAt  string   `json:"created_at"`
}

type QuestionListResponse struct {
	Items []QuestionResponse `json:"items"`
}
