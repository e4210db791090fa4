// Package local implements the storage contract against a synchronous
// key/value store, the way a browser app would use localStorage: each
// collection lives whole under one fixed key as a JSON array.
//
// Every mutation reads the entire collection, changes the in-memory copy
// and writes the entire collection back. There is no locking: two
// near-simultaneous mutations race and the last writer wins. That is the
// accepted contract for single-user local mode, which has no concurrent
// writers in practice.
package local

import (
	"context"
	"encoding/json"
	"fmt"

	"fuizlet/internal/kv"
	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

// Fixed keys under which the collections are stored.
const (
	keySets        = "fuizlet_sets"
	keyFolders     = "fuizlet_folders"
	keyGroups      = "fuizlet_groups"
	keyCurrentUser = "fuizlet_current_user"
	keyUsers       = "fuizlet_users"
)

// Store is the local backend adapter. It is synchronous and single-user:
// ownership is not enforced, ids supplied by the id generator are trusted
// without uniqueness checks.
type Store struct {
	kv     kv.Store
	clock  store.Clock
	idgen  store.IDGenerator
	logger store.Logger
}

// New creates a local backend over the given key/value store.
func New(kvs kv.Store, clock store.Clock, idgen store.IDGenerator, logger store.Logger) *Store {
	return &Store{kv: kvs, clock: clock, idgen: idgen, logger: logger}
}

// readCollection loads and deserializes a whole collection. An absent key
// or corrupt JSON yields an empty collection, never an error; only store
// I/O failures propagate.
func readCollection[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading collection %q: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corrupt collection, starting empty", "key", key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// writeCollection serializes and rewrites a whole collection.
func writeCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("writing collection %q: %w", key, err)
	}
	return nil
}

// Study sets

func (s *Store) GetSets(ctx context.Context) ([]model.StudySet, error) {
	sets, err := readCollection[model.StudySet](ctx, s, keySets)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].Terms == nil {
			sets[i].Terms = []model.Term{}
		}
	}
	return sets, nil
}

func (s *Store) GetSetByID(ctx context.Context, id string) (*model.StudySet, error) {
	sets, err := s.GetSets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].ID == id {
			return &sets[i], nil
		}
	}
	return nil, nil
}

func (s *Store) AddSet(ctx context.Context, in model.NewSet) (*model.StudySet, error) {
	sets, err := readCollection[model.StudySet](ctx, s, keySets)
	if err != nil {
		return nil, err
	}

	terms := in.Terms
	if terms == nil {
		terms = []model.Term{}
	}

	now := s.clock.Now()
	set := model.StudySet{
		ID:          s.idgen.New(),
		OwnerID:     s.currentOwnerID(ctx),
		Title:       in.Title,
		Description: in.Description,
		Terms:       terms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	sets = append(sets, set)
	if err := writeCollection(ctx, s, keySets, sets); err != nil {
		return nil, err
	}
	return &set, nil
}

// UpdateSet shallow-merges the non-nil fields of in into the matching set.
// An unknown id is a silent no-op, mirroring the not-found-is-absent
// convention of the read paths.
func (s *Store) UpdateSet(ctx context.Context, id string, in model.SetUpdate) error {
	sets, err := readCollection[model.StudySet](ctx, s, keySets)
	if err != nil {
		return err
	}

	for i := range sets {
		if sets[i].ID != id {
			continue
		}
		if in.Title != nil {
			sets[i].Title = *in.Title
		}
		if in.Description != nil {
			sets[i].Description = *in.Description
		}
		if in.Terms != nil {
			terms := *in.Terms
			if terms == nil {
				terms = []model.Term{}
			}
			sets[i].Terms = terms
		}
		sets[i].UpdatedAt = s.clock.Now()
	}

	return writeCollection(ctx, s, keySets, sets)
}

func (s *Store) DeleteSet(ctx context.Context, id string) error {
	sets, err := readCollection[model.StudySet](ctx, s, keySets)
	if err != nil {
		return err
	}

	kept := sets[:0]
	for _, set := range sets {
		if set.ID != id {
			kept = append(kept, set)
		}
	}
	return writeCollection(ctx, s, keySets, kept)
}

// Folders

func (s *Store) GetFolders(ctx context.Context) ([]model.Folder, error) {
	folders, err := readCollection[model.Folder](ctx, s, keyFolders)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].SetIDs == nil {
			folders[i].SetIDs = []string{}
		}
	}
	return folders, nil
}

func (s *Store) GetFolderByID(ctx context.Context, id string) (*model.Folder, error) {
	folders, err := s.GetFolders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].ID == id {
			return &folders[i], nil
		}
	}
	return nil, nil
}

func (s *Store) AddFolder(ctx context.Context, in model.NewFolder) (*model.Folder, error) {
	folders, err := readCollection[model.Folder](ctx, s, keyFolders)
	if err != nil {
		return nil, err
	}

	folder := model.Folder{
		ID:          s.idgen.New(),
		OwnerID:     s.currentOwnerID(ctx),
		Name:        in.Name,
		Description: in.Description,
		SetIDs:      []string{},
	}

	folders = append(folders, folder)
	if err := writeCollection(ctx, s, keyFolders, folders); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	folders, err := readCollection[model.Folder](ctx, s, keyFolders)
	if err != nil {
		return err
	}

	kept := folders[:0]
	for _, f := range folders {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return writeCollection(ctx, s, keyFolders, kept)
}

// AddSetToFolder appends setID to the folder's set list if not already
// present. The collection is rewritten either way: a duplicate add is an
// idempotent full rewrite, not a short-circuit.
func (s *Store) AddSetToFolder(ctx context.Context, folderID, setID string) error {
	folders, err := readCollection[model.Folder](ctx, s, keyFolders)
	if err != nil {
		return err
	}

	for i := range folders {
		if folders[i].ID == folderID && !contains(folders[i].SetIDs, setID) {
			folders[i].SetIDs = append(folders[i].SetIDs, setID)
		}
	}
	return writeCollection(ctx, s, keyFolders, folders)
}

func (s *Store) RemoveSetFromFolder(ctx context.Context, folderID, setID string) error {
	folders, err := readCollection[model.Folder](ctx, s, keyFolders)
	if err != nil {
		return err
	}

	for i := range folders {
		if folders[i].ID == folderID {
			folders[i].SetIDs = remove(folders[i].SetIDs, setID)
		}
	}
	return writeCollection(ctx, s, keyFolders, folders)
}

// Groups

func (s *Store) GetGroups(ctx context.Context) ([]model.Group, error) {
	groups, err := readCollection[model.Group](ctx, s, keyGroups)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].SetIDs == nil {
			groups[i].SetIDs = []string{}
		}
		if groups[i].Members == nil {
			groups[i].Members = []string{}
		}
	}
	return groups, nil
}

func (s *Store) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// AddGroup creates a group. The creator, when somebody is signed in, is
// recorded inline as the first member; local mode stores members directly
// on the group rather than in a separate relation.
func (s *Store) AddGroup(ctx context.Context, in model.NewGroup) (*model.Group, error) {
	groups, err := readCollection[model.Group](ctx, s, keyGroups)
	if err != nil {
		return nil, err
	}

	group := model.Group{
		ID:          s.idgen.New(),
		Name:        in.Name,
		Description: in.Description,
		School:      in.School,
		SetIDs:      []string{},
		Members:     []string{},
	}
	if user, _ := s.GetCurrentUser(ctx); user != nil {
		group.CreatedBy = user.DisplayName()
		group.Members = []string{user.DisplayName()}
	}

	groups = append(groups, group)
	if err := writeCollection(ctx, s, keyGroups, groups); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	groups, err := readCollection[model.Group](ctx, s, keyGroups)
	if err != nil {
		return err
	}

	kept := groups[:0]
	for _, g := range groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	return writeCollection(ctx, s, keyGroups, kept)
}

func (s *Store) AddSetToGroup(ctx context.Context, groupID, setID string) error {
	groups, err := readCollection[model.Group](ctx, s, keyGroups)
	if err != nil {
		return err
	}

	for i := range groups {
		if groups[i].ID == groupID && !contains(groups[i].SetIDs, setID) {
			groups[i].SetIDs = append(groups[i].SetIDs, setID)
		}
	}
	return writeCollection(ctx, s, keyGroups, groups)
}

func (s *Store) AddMemberToGroup(ctx context.Context, groupID, username string) error {
	groups, err := readCollection[model.Group](ctx, s, keyGroups)
	if err != nil {
		return err
	}

	for i := range groups {
		if groups[i].ID == groupID && !contains(groups[i].Members, username) {
			groups[i].Members = append(groups[i].Members, username)
		}
	}
	return writeCollection(ctx, s, keyGroups, groups)
}

// currentOwnerID returns the display name of the cached user, or empty when
// nobody is signed in. Local users have no real ids.
func (s *Store) currentOwnerID(ctx context.Context) string {
	user, _ := s.GetCurrentUser(ctx)
	if user == nil {
		return ""
	}
	return user.DisplayName()
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func remove(items []string, v string) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != v {
			kept = append(kept, item)
		}
	}
	return kept
}

// Compile-time check that Store implements the storage contract
var _ store.Store = (*Store)(nil)
