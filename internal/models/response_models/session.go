package response_models

type SessionCreatedResponse struct {
	SessionID string `json:"session_id"`
}
