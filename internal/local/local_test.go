package local

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fuizlet/internal/kv"
	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	kvs := kv.NewMemory()
	s := New(kvs, fixedClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		&seqIDGenerator{}, store.NewNopLogger())
	return s, kvs
}

func TestAddSet_DefaultsEmptyTerms(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.AddSet(ctx, model.NewSet{Title: "T"})
	if err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}
	if created.Terms == nil {
		t.Fatal("AddSet() Terms = nil, want empty slice")
	}

	got, err := s.GetSetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetSetByID() = nil for freshly created set")
	}
	if got.Terms == nil {
		t.Error("GetSetByID() Terms = nil, want empty slice")
	}
	if len(got.Terms) != 0 {
		t.Errorf("len(Terms) = %d, want 0", len(got.Terms))
	}
}

func TestUpdateSet_PartialMergePreservesFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.AddSet(ctx, model.NewSet{Title: "A", Description: "B"})
	if err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}

	title := "C"
	if err := s.UpdateSet(ctx, created.ID, model.SetUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateSet() error = %v", err)
	}

	got, err := s.GetSetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSetByID() error = %v", err)
	}
	if got.Title != "C" {
		t.Errorf("Title = %q, want %q", got.Title, "C")
	}
	if got.Description != "B" {
		t.Errorf("Description = %q, want %q", got.Description, "B")
	}
}

func TestUpdateSet_UnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	title := "C"
	if err := s.UpdateSet(ctx, "nonexistent", model.SetUpdate{Title: &title}); err != nil {
		t.Errorf("UpdateSet() error = %v, want nil", err)
	}
}

func TestGetSetByID_UnknownID(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.GetSetByID(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetSetByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetSetByID() = %+v, want nil", got)
	}
}

func TestDeleteSet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.AddSet(ctx, model.NewSet{Title: "T"})
	if err != nil {
		t.Fatalf("AddSet() error = %v", err)
	}
	if err := s.DeleteSet(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSet() error = %v", err)
	}

	got, err := s.GetSetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSetByID() error = %v", err)
	}
	if got != nil {
		t.Error("GetSetByID() returned deleted set")
	}
}

func TestGetSets_CorruptCollection(t *testing.T) {
	s, kvs := newTestStore(t)
	ctx := context.Background()

	if err := kvs.Set(ctx, "fuizlet_sets", "{not json"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	sets, err := s.GetSets(ctx)
	if err != nil {
		t.Fatalf("GetSets() error = %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("GetSets() = %d sets for corrupt collection, want 0", len(sets))
	}
}

func TestFolderLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	folder, err := s.AddFolder(ctx, model.NewFolder{Name: "Bio"})
	if err != nil {
		t.Fatalf("AddFolder() error = %v", err)
	}
	if folder.SetIDs == nil || len(folder.SetIDs) != 0 {
		t.Fatalf("AddFolder() SetIDs = %v, want empty slice", folder.SetIDs)
	}

	if err := s.AddSetToFolder(ctx, folder.ID, "set-42"); err != nil {
		t.Fatalf("AddSetToFolder() error = %v", err)
	}

	got, err := s.GetFolderByID(ctx, folder.ID)
	if err != nil {
		t.Fatalf("GetFolderByID() error = %v", err)
	}
	if len(got.SetIDs) != 1 || got.SetIDs[0] != "set-42" {
		t.Fatalf("SetIDs = %v, want [set-42]", got.SetIDs)
	}

	if err := s.RemoveSetFromFolder(ctx, folder.ID, "set-42"); err != nil {
		t.Fatalf("RemoveSetFromFolder() error = %v", err)
	}

	got, err = s.GetFolderByID(ctx, folder.ID)
	if err != nil {
		t.Fatalf("GetFolderByID() error = %v", err)
	}
	if len(got.SetIDs) != 0 {
		t.Errorf("SetIDs = %v after remove, want empty", got.SetIDs)
	}
}

func TestAddSetToFolder_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	folder, err := s.AddFolder(ctx, model.NewFolder{Name: "Chem"})
	if err != nil {
		t.Fatalf("AddFolder() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.AddSetToFolder(ctx, folder.ID, "set-1"); err != nil {
			t.Fatalf("AddSetToFolder() iteration %d error = %v", i+1, err)
		}
	}

	got, err := s.GetFolderByID(ctx, folder.ID)
	if err != nil {
		t.Fatalf("GetFolderByID() error = %v", err)
	}
	count := 0
	for _, id := range got.SetIDs {
		if id == "set-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("set-1 appears %d times, want 1", count)
	}
}

func TestAddGroup_CreatorBecomesMember(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SignUp(ctx, "ada@example.com", "pw", "ada"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	group, err := s.AddGroup(ctx, model.NewGroup{Name: "Study Buddies", School: "MIT"})
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}

	got, err := s.GetGroupByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetGroupByID() = nil for freshly created group")
	}
	if len(got.Members) != 1 || got.Members[0] != "ada" {
		t.Errorf("Members = %v, want [ada]", got.Members)
	}
	if got.CreatedBy != "ada" {
		t.Errorf("CreatedBy = %q, want %q", got.CreatedBy, "ada")
	}
	if got.School != "MIT" {
		t.Errorf("School = %q, want %q", got.School, "MIT")
	}
}

func TestAddMemberToGroup_NoDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	group, err := s.AddGroup(ctx, model.NewGroup{Name: "G"})
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.AddMemberToGroup(ctx, group.ID, "grace"); err != nil {
			t.Fatalf("AddMemberToGroup() iteration %d error = %v", i+1, err)
		}
	}

	got, err := s.GetGroupByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupByID() error = %v", err)
	}
	if len(got.Members) != 1 {
		t.Errorf("Members = %v, want exactly one entry", got.Members)
	}
}

func TestAddSetToGroup_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	group, err := s.AddGroup(ctx, model.NewGroup{Name: "G"})
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.AddSetToGroup(ctx, group.ID, "set-9"); err != nil {
			t.Fatalf("AddSetToGroup() iteration %d error = %v", i+1, err)
		}
	}

	got, err := s.GetGroupByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupByID() error = %v", err)
	}
	if len(got.SetIDs) != 1 {
		t.Errorf("SetIDs = %v, want exactly one entry", got.SetIDs)
	}
}

func TestDeleteGroup(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	group, err := s.AddGroup(ctx, model.NewGroup{Name: "G"})
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	if err := s.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}

	got, err := s.GetGroupByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupByID() error = %v", err)
	}
	if got != nil {
		t.Error("GetGroupByID() returned deleted group")
	}
}
