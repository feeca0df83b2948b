package monitor

import "time"

type Status struct {
	Store     bool      `json:"store"`
	Redis     bool      `json:"redis"`
	LastCheck time.Time `json:"last_check"`
}
