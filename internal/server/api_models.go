package server

// SubmitTaskRequest is the payload for submitting a URL for analysis.
type SubmitTaskRequest struct {
	URL  string `json:"url" example:"https://example.com/pricing"`
	Tier string `json:"tier" example:"registered"`
}

// SubmitTaskResponse carries the id of the task serving this submission.
// A fresh cached analysis of the same page returns the existing task's id.
type SubmitTaskResponse struct {
	TaskID string `json:"task_id" example:"0d9f6a1e-8f57-4b8e-9f34-1f0c2a6d7b41"`
}

// WeightsRequest is the payload for replacing the scoring weights.
type WeightsRequest struct {
	Technical      int `json:"technical" example:"30"`
	Content        int `json:"content" example:"25"`
	StructuredData int `json:"structured_data" example:"15"`
	Performance    int `json:"performance" example:"15"`
	Social         int `json:"social" example:"15"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
