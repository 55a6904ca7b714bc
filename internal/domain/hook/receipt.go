package hook

import "time"

// Receipt is the durable record of one hook evaluation, persisted
// append-only per hook (spec §4.8/§5).
type Receipt struct {
	HookID      HookID       `json:"hookId"`
	ExecutionID string       `json:"executionId"`
	StartedAt   time.Time    `json:"startedAt"`
	FinishedAt  time.Time    `json:"finishedAt"`
	DurationMs  int64        `json:"durationMs"`
	Success     bool         `json:"success"`
	StepResults []StepResult `json:"stepResults"`
	Error       string       `json:"error,omitempty"`
}
