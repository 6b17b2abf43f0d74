package db_models

// ChatInteraction is one assistant turn, kept for auditing prompt quality and latency.
type ChatInteraction struct {
	BaseModel
	SessionID string `gorm:"index" json:"session_id,omitempty"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Prompt    string `gorm:"type:text" json:"prompt"`
	Response  string `gorm:"type:text" json:"response"`
	HasPlan   bool   `json:"has_plan"`
	PlanCity  string `json:"plan_city,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
	Failed    bool   `json:"failed"`
}

func (ChatInteraction) TableName() string {
	return "chat_interactions"
}
