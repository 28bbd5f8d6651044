package model

import "time"

type Job struct {
	JobID     string    `db:"job_id"`
	Prompt    string    `db:"prompt"`
	Status    string    `db:"status"`
	Result    *string   `db:"result"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
