package repository

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound se devuelve cuando la clave no existe en el store.
	ErrKeyNotFound = errors.New("kv: key not found")
	// ErrHistoryConflict se devuelve cuando el CAS del historial agota sus intentos.
	ErrHistoryConflict = errors.New("kv: history update conflict")
)

// KVStore es el contrato minimo del almacen clave/valor externo.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// Swapper lo implementan los stores que soportan compare-and-swap.
// old == nil significa que la clave no debe existir.
type Swapper interface {
	CompareAndSwap(ctx context.Context, key string, old, next []byte) (bool, error)
}
