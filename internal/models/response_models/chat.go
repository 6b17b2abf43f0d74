package response_models

type ChatResponse struct {
	Content string `json:"content"`
	Plan    *Plan  `json:"plan"`
}
