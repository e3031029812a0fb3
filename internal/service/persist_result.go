package service

import "errors"

// PersistStatus describe que paso con una escritura best-effort.
type PersistStatus string

const (
	PersistOK       PersistStatus = "ok"
	PersistSkipped  PersistStatus = "skipped"  // no hay store configurado
	PersistDegraded PersistStatus = "degraded" // fallo, pero el request sigue como exitoso
	PersistFailed   PersistStatus = "failed"   // fallo y el modo estricto lo expone
)

// PersistResult acompaña cada respuesta que intenta persistir algo.
type PersistResult struct {
	Status PersistStatus
	Err    error
}

func (r PersistResult) Failed() bool {
	return r.Status == PersistFailed
}

func persistOutcome(err error, strict bool) PersistResult {
	switch {
	case err == nil:
		return PersistResult{Status: PersistOK}
	case errors.Is(err, ErrStoreNotBound):
		return PersistResult{Status: PersistSkipped}
	case strict:
		return PersistResult{Status: PersistFailed, Err: err}
	default:
		return PersistResult{Status: PersistDegraded, Err: err}
	}
}

var persistRank = map[PersistStatus]int{
	PersistOK:       0,
	PersistSkipped:  1,
	PersistDegraded: 2,
	PersistFailed:   3,
}

// worst combina varios resultados quedandose con el mas grave.
func worst(results ...PersistResult) PersistResult {
	out := PersistResult{Status: PersistOK}
	for _, r := range results {
		if persistRank[r.Status] > persistRank[out.Status] {
			out = r
		}
	}
	return out
}
