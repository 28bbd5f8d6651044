package domain

import "time"

// JobMessage is a job dispatched over RabbitMQ for processing
type JobMessage struct {
	JobID       string `json:"job_id"`
	Prompt      string `json:"prompt"`
	DeliveryTag uint64 `json:"-"`
}

// SimulationResult is the fabricated payload the worker reports back
// through the completion callback. It is serialized to a string before
// sending; the API stores it verbatim.
type SimulationResult struct {
	JobID       string `json:"jobId"`
	Summary     string `json:"summary"`
	ProcessedAt string `json:"processedAt"`
}

// NewSimulationResult builds a result for a processed job
func NewSimulationResult(jobID string, processedAt time.Time) SimulationResult {
	return SimulationResult{
		JobID:       jobID,
		Summary:     "processed job " + jobID,
		ProcessedAt: processedAt.Format(time.RFC3339),
	}
}
