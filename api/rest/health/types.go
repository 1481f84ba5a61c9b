package health

import "context"

// Response represents the health check response
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// APIResponse is the health body served under /api
type APIResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

type PingResponse struct {
	Message string `json:"message"`
}

// anything whose reachability gates readiness
type Pinger interface {
	Ping(ctx context.Context) error
}
