package registry

import (
	"testing"

	"github.com/assetops/ragline/internal/domain/source"
)

func mustSource(t *testing.T, name, table string) source.Source {
	t.Helper()
	s, err := source.New(name, name, table, []string{"id", "name"}, []string{"name"}, nil, "")
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	return s
}

func TestRegister_LastWriteWins(t *testing.T) {
	r := New()
	r.Register(mustSource(t, "assets", "assets_v1"))
	r.Register(mustSource(t, "assets", "assets_v2"))

	s, ok := r.Get("assets")
	if !ok {
		t.Fatal("expected source to exist")
	}
	if s.Table() != "assets_v2" {
		t.Errorf("expected last registration to win, got table %q", s.Table())
	}
	if len(r.All()) != 1 {
		t.Errorf("expected 1 source, got %d", len(r.All()))
	}
}

func TestAll_PreservesRegistrationOrder(t *testing.T) {
	r := New()
	r.Register(mustSource(t, "employees", "employees"))
	r.Register(mustSource(t, "assets", "assets"))

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(all))
	}
	if all[0].Name() != "employees" || all[1].Name() != "assets" {
		t.Errorf("unexpected order: %s, %s", all[0].Name(), all[1].Name())
	}
}

func TestResolve_EmptySelectsAll(t *testing.T) {
	r := New()
	r.Register(mustSource(t, "assets", "assets"))
	r.Register(mustSource(t, "employees", "employees"))

	if got := r.Resolve(nil); len(got) != 2 {
		t.Errorf("expected all sources for empty entities, got %d", len(got))
	}
}

func TestResolve_UnknownFallsBackToAll(t *testing.T) {
	r := New()
	r.Register(mustSource(t, "assets", "assets"))

	if got := r.Resolve([]string{"nonexistent"}); len(got) != 1 {
		t.Errorf("expected fallback to all sources, got %d", len(got))
	}
}

func TestResolve_MatchesSubset(t *testing.T) {
	r := New()
	r.Register(mustSource(t, "assets", "assets"))
	r.Register(mustSource(t, "employees", "employees"))

	got := r.Resolve([]string{"employees", "bogus"})
	if len(got) != 1 || got[0].Name() != "employees" {
		t.Errorf("expected only employees, got %v", got)
	}
}

func TestGet_Missing(t *testing.T) {
	r := New()
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing source to report not found")
	}
}
