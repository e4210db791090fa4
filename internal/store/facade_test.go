package store_test

import (
	"context"
	"testing"
	"time"

	"fuizlet/internal/kv"
	"fuizlet/internal/local"
	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type staticIDs struct {
	prefix string
}

func (g *staticIDs) New() string { return g.prefix }

// switchableSource simulates a remote backend that appears or disappears
// between calls, the way a configuration change does at runtime.
type switchableSource struct {
	backend store.Store
	active  bool
}

func (s *switchableSource) Remote() store.Store {
	if s.active {
		return s.backend
	}
	return nil
}

func newBackend(t *testing.T, idPrefix string) store.Store {
	t.Helper()
	return local.New(kv.NewMemory(),
		fixedClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		&staticIDs{prefix: idPrefix}, store.NewNopLogger())
}

func TestFacade_DispatchesToLocalWhenRemoteAbsent(t *testing.T) {
	localBackend := newBackend(t, "local-id")
	facade := store.NewFacade(localBackend, &switchableSource{})
	ctx := context.Background()

	if facade.IsCloud() {
		t.Error("IsCloud() = true without a remote backend, want false")
	}

	created, err := facade.AddSet(ctx, model.NewSet{Title: "T"})
	if err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}
	if created.ID != "local-id" {
		t.Errorf("AddSet() ID = %q, want local backend id", created.ID)
	}

	got, err := localBackend.GetSetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSetByID() error = %v", err)
	}
	if got == nil {
		t.Error("set not written through the local backend")
	}
}

func TestFacade_DispatchesToRemoteWhenPresent(t *testing.T) {
	localBackend := newBackend(t, "local-id")
	remoteBackend := newBackend(t, "remote-id")
	facade := store.NewFacade(localBackend, &switchableSource{backend: remoteBackend, active: true})
	ctx := context.Background()

	if !facade.IsCloud() {
		t.Error("IsCloud() = false with a remote backend, want true")
	}

	created, err := facade.AddSet(ctx, model.NewSet{Title: "T"})
	if err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}
	if created.ID != "remote-id" {
		t.Errorf("AddSet() ID = %q, want remote backend id", created.ID)
	}

	got, err := localBackend.GetSetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSetByID() error = %v", err)
	}
	if got != nil {
		t.Error("set leaked into the local backend")
	}
}

func TestFacade_ReevaluatesBackendPerCall(t *testing.T) {
	localBackend := newBackend(t, "local-id")
	remoteBackend := newBackend(t, "remote-id")
	source := &switchableSource{backend: remoteBackend}
	facade := store.NewFacade(localBackend, source)
	ctx := context.Background()

	if _, err := facade.AddSet(ctx, model.NewSet{Title: "before"}); err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}

	source.active = true

	if _, err := facade.AddSet(ctx, model.NewSet{Title: "after"}); err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}

	localSets, err := localBackend.GetSets(ctx)
	if err != nil {
		t.Fatalf("GetSets() error = %v", err)
	}
	remoteSets, err := remoteBackend.GetSets(ctx)
	if err != nil {
		t.Fatalf("GetSets() error = %v", err)
	}
	if len(localSets) != 1 || localSets[0].Title != "before" {
		t.Errorf("local sets = %v, want only the pre-switch set", localSets)
	}
	if len(remoteSets) != 1 || remoteSets[0].Title != "after" {
		t.Errorf("remote sets = %v, want only the post-switch set", remoteSets)
	}
}

func TestFacade_AuthDispatch(t *testing.T) {
	localBackend := newBackend(t, "local-id")
	remoteBackend := newBackend(t, "remote-id")
	source := &switchableSource{backend: remoteBackend, active: true}
	facade := store.NewFacade(localBackend, source)
	ctx := context.Background()

	if _, err := facade.SignUp(ctx, "ada@example.com", "pw", "ada"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	remoteUser, err := remoteBackend.GetCurrentUser(ctx)
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if remoteUser == nil {
		t.Error("SignUp() did not reach the remote backend")
	}

	localUser, err := localBackend.GetCurrentUser(ctx)
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if localUser != nil {
		t.Error("SignUp() leaked into the local backend")
	}

	// Same call, same shapes, after the remote backend goes away.
	source.active = false
	user, err := facade.GetCurrentUser(ctx)
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user != nil {
		t.Errorf("GetCurrentUser() = %+v from local backend, want nil", user)
	}
}
