package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ai-assistant/internal/repository"
)

type failingSettingsRepo struct{ err error }

func (f failingSettingsRepo) Save(context.Context, string, json.RawMessage) error { return f.err }
func (f failingSettingsRepo) Get(context.Context, string) (json.RawMessage, error) {
	return nil, f.err
}

func TestSettingsService_SavePerTenant(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	svc := NewSettingsService(repository.NewKVSettingsRepository(kv), false, nil)

	acme := WithTenant(context.Background(), "acme")
	res, err := svc.Save(acme, json.RawMessage(` {"responseStyle":"technical"} `))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Status != PersistOK {
		t.Fatalf("expected ok, got %s", res.Status)
	}

	if _, err := kv.Get(context.Background(), "settings:acme"); err != nil {
		t.Fatalf("expected settings under tenant key, got %v", err)
	}
	if got := string(svc.Get(acme)); got != `{"responseStyle":"technical"}` {
		t.Fatalf("unexpected settings %s", got)
	}
	if got := string(svc.Get(context.Background())); got != `{}` {
		t.Fatalf("expected default tenant to be isolated, got %s", got)
	}
	if svc.ResponseStyle(acme) != StyleTechnical {
		t.Fatalf("expected technical style")
	}
}

func TestSettingsService_RejectsNonObject(t *testing.T) {
	svc := NewSettingsService(nil, false, nil)
	for _, raw := range []string{"", "[]", `"x"`, "{bad"} {
		if _, err := svc.Save(context.Background(), json.RawMessage(raw)); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("payload %q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestSettingsService_Persistence(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("kv down")

	res, err := NewSettingsService(nil, true, nil).Save(ctx, json.RawMessage(`{}`))
	if err != nil || res.Status != PersistSkipped {
		t.Fatalf("expected skipped without store, got %+v err=%v", res, err)
	}

	res, _ = NewSettingsService(failingSettingsRepo{err: boom}, false, nil).Save(ctx, json.RawMessage(`{}`))
	if res.Status != PersistDegraded {
		t.Fatalf("expected degraded in lenient mode, got %s", res.Status)
	}

	res, _ = NewSettingsService(failingSettingsRepo{err: boom}, true, nil).Save(ctx, json.RawMessage(`{}`))
	if !res.Failed() || !errors.Is(res.Err, boom) {
		t.Fatalf("expected failed in strict mode, got %+v", res)
	}
}

func TestSettingsService_GetFallsBackOnError(t *testing.T) {
	svc := NewSettingsService(failingSettingsRepo{err: errors.New("boom")}, false, nil)
	if got := string(svc.Get(context.Background())); got != `{}` {
		t.Fatalf("expected {}, got %s", got)
	}
	if svc.ResponseStyle(context.Background()) != "" {
		t.Fatalf("expected empty style")
	}
}

func TestTenantFromContext(t *testing.T) {
	if got := TenantFromContext(context.Background()); got != DefaultTenant {
		t.Fatalf("expected default tenant, got %q", got)
	}
	if got := TenantFromContext(WithTenant(context.Background(), " acme ")); got != "acme" {
		t.Fatalf("expected trimmed tenant, got %q", got)
	}
	if got := TenantFromContext(WithTenant(context.Background(), "  ")); got != DefaultTenant {
		t.Fatalf("expected blank tenant to fall back, got %q", got)
	}
}
