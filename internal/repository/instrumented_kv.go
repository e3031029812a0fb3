package repository

import (
	"context"
	"errors"

	"ai-assistant/internal/domain"
)

// OpRecorder recibe el resultado de cada operacion contra el KV.
type OpRecorder interface {
	ObserveKV(op string, err error)
}

type instrumentedKV struct {
	inner    KVStore
	recorder OpRecorder
}

type instrumentedSwapKV struct {
	instrumentedKV
	swapper Swapper
}

// InstrumentKV envuelve el store para reportar metricas. Si el store soporta CAS,
// el wrapper tambien lo soporta.
func InstrumentKV(store KVStore, recorder OpRecorder) KVStore {
	if store == nil || recorder == nil {
		return store
	}
	base := instrumentedKV{inner: store, recorder: recorder}
	if sw, ok := store.(Swapper); ok {
		return &instrumentedSwapKV{instrumentedKV: base, swapper: sw}
	}
	return &base
}

func (s *instrumentedKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.inner.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		// Una clave ausente no es una falla del store.
		s.recorder.ObserveKV("get", nil)
	} else {
		s.recorder.ObserveKV("get", err)
	}
	return val, err
}

func (s *instrumentedKV) Put(ctx context.Context, key string, value []byte) error {
	err := s.inner.Put(ctx, key, value)
	s.recorder.ObserveKV("put", err)
	return err
}

func (s *instrumentedKV) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.List(ctx, prefix)
	s.recorder.ObserveKV("list", err)
	return keys, err
}

func (s *instrumentedSwapKV) CompareAndSwap(ctx context.Context, key string, old, next []byte) (bool, error) {
	ok, err := s.swapper.CompareAndSwap(ctx, key, old, next)
	s.recorder.ObserveKV("cas", err)
	return ok, err
}

type instrumentedHistory struct {
	inner    HistoryRepository
	recorder OpRecorder
}

// InstrumentHistory reporta las operaciones de un historial que no pasa por un
// KVStore (la lista nativa de Redis) con el mismo recorder del KV.
func InstrumentHistory(repo HistoryRepository, recorder OpRecorder) HistoryRepository {
	if repo == nil || recorder == nil {
		return repo
	}
	return &instrumentedHistory{inner: repo, recorder: recorder}
}

func (h *instrumentedHistory) List(ctx context.Context, sessionID string) ([]domain.Message, error) {
	msgs, err := h.inner.List(ctx, sessionID)
	h.recorder.ObserveKV("history_list", err)
	return msgs, err
}

func (h *instrumentedHistory) Append(ctx context.Context, sessionID string, msg domain.Message, limit int) error {
	err := h.inner.Append(ctx, sessionID, msg, limit)
	h.recorder.ObserveKV("history_append", err)
	return err
}
