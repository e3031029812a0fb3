package service

import (
	"time"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/metrics"
)

// StatusSource entrega la lectura actual de la instrumentacion.
type StatusSource interface {
	Snapshot() metrics.Snapshot
}

// StatusService arma el documento de estado a partir de metricas reales.
type StatusService struct {
	source           StatusSource
	inferenceEnabled bool
	storeBound       bool
	now              func() time.Time
}

func NewStatusService(source StatusSource, inferenceEnabled, storeBound bool) *StatusService {
	return &StatusService{
		source:           source,
		inferenceEnabled: inferenceEnabled,
		storeBound:       storeBound,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *StatusService) Status() domain.Status {
	var snap metrics.Snapshot
	if s.source != nil {
		snap = s.source.Snapshot()
	}

	return domain.Status{
		Timestamp: s.now().Format(time.RFC3339Nano),
		Services: domain.StatusServices{
			LLM: domain.LLMStatus{
				Status:  bindingStatus(s.inferenceEnabled, snap.LLMCalls, snap.LLMFailures),
				Latency: snap.LLMMeanLatencyMs,
			},
			Workers: domain.WorkersStatus{
				Status:   domain.ServiceOnline,
				Requests: snap.Requests,
			},
			KV: domain.KVStatus{
				Status: bindingStatus(s.storeBound, snap.KVOps, snap.KVFailures),
				Usage:  float64(snap.KVOps),
			},
			DurableObjects: domain.InstanceStatus{
				Status:    domain.ServiceOnline,
				Instances: snap.InFlight,
			},
		},
	}
}

// bindingStatus: disabled sin binding, degraded si al menos la mitad de las operaciones fallo.
func bindingStatus(bound bool, total, failures int64) string {
	if !bound {
		return domain.ServiceDisabled
	}
	if failures > 0 && failures*2 >= total {
		return domain.ServiceDegraded
	}
	return domain.ServiceOnline
}
