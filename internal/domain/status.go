package domain

const (
	ServiceOnline   = "online"
	ServiceDisabled = "disabled"
	ServiceDegraded = "degraded"
)

// Status es el documento de GET /api/status. La forma se mantiene estable
// aunque los valores salen de la instrumentacion del proceso.
type Status struct {
	Timestamp string         `json:"timestamp"`
	Services  StatusServices `json:"services"`
}

type StatusServices struct {
	LLM            LLMStatus      `json:"llm"`
	Workers        WorkersStatus  `json:"workers"`
	KV             KVStatus       `json:"kv"`
	DurableObjects InstanceStatus `json:"durableObjects"`
}

type LLMStatus struct {
	Status  string  `json:"status"`
	Latency float64 `json:"latency"` // ms promedio
}

type WorkersStatus struct {
	Status   string `json:"status"`
	Requests int64  `json:"requests"`
}

type KVStatus struct {
	Status string  `json:"status"`
	Usage  float64 `json:"usage"` // operaciones KV realizadas
}

type InstanceStatus struct {
	Status    string `json:"status"`
	Instances int64  `json:"instances"` // requests en curso
}
