// Package remote implements the storage contract against the hosted
// relational/auth service. Every operation suspends at the service call
// boundary; rows are normalized into the shared entity shapes on the way
// out so callers never see column names or join shapes.
package remote

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fuizlet/internal/kv"
	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

// Store is the remote backend adapter.
//
// Propagation policy: service-level failures on CRUD reads and writes are
// logged and absorbed at this boundary — reads return an empty collection
// or nil entity, writes become no-ops. Auth operations and composite
// partial failures return real errors the caller must check.
type Store struct {
	db       *gorm.DB
	sessions kv.Store // holds the serialized session token between calls
	key      string   // access key; signs and verifies session tokens
	clock    store.Clock
	logger   store.Logger
}

// New creates a remote backend over an open service handle. sessions is the
// local slot where the client keeps its session token, the way a hosted
// client library keeps its session in browser storage.
func New(db *gorm.DB, sessions kv.Store, key string, clock store.Clock, logger store.Logger) *Store {
	return &Store{db: db, sessions: sessions, key: key, clock: clock, logger: logger}
}

// available reports whether a service handle exists. Operations against an
// unconfigured client degrade to empty results instead of failing.
func (s *Store) available() bool {
	return s != nil && s.db != nil
}

// Study sets

func (s *Store) GetSets(ctx context.Context) ([]model.StudySet, error) {
	if !s.available() {
		return []model.StudySet{}, nil
	}

	var rows []studySetRow
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		s.logger.Error("listing study sets", "error", err)
		return []model.StudySet{}, nil
	}

	sets := make([]model.StudySet, 0, len(rows))
	for i := range rows {
		sets = append(sets, rows[i].toModel())
	}
	return sets, nil
}

func (s *Store) GetSetByID(ctx context.Context, id string) (*model.StudySet, error) {
	if !s.available() {
		return nil, nil
	}

	var row studySetRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("loading study set", "id", id, "error", err)
		}
		return nil, nil
	}
	set := row.toModel()
	return &set, nil
}

// AddSet inserts a study set owned by the current user. A missing session
// is ErrNotSignedIn; remote writes always stamp ownership.
func (s *Store) AddSet(ctx context.Context, in model.NewSet) (*model.StudySet, error) {
	if !s.available() {
		return nil, nil
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, store.ErrNotSignedIn
	}

	now := s.clock.Now()
	row := studySetRow{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       in.Title,
		Description: in.Description,
		Terms:       jsonList[model.Term](in.Terms),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.logger.Error("creating study set", "error", err)
		return nil, nil
	}

	set := row.toModel()
	return &set, nil
}

func (s *Store) UpdateSet(ctx context.Context, id string, in model.SetUpdate) error {
	if !s.available() {
		return nil
	}

	updates := map[string]any{"updated_at": s.clock.Now()}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Terms != nil {
		updates["terms"] = jsonList[model.Term](*in.Terms)
	}

	err := s.db.WithContext(ctx).Model(&studySetRow{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		s.logger.Error("updating study set", "id", id, "error", err)
	}
	return nil
}

func (s *Store) DeleteSet(ctx context.Context, id string) error {
	if !s.available() {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&studySetRow{}).Error; err != nil {
		s.logger.Error("deleting study set", "id", id, "error", err)
	}
	return nil
}

// Folders

func (s *Store) GetFolders(ctx context.Context) ([]model.Folder, error) {
	if !s.available() {
		return []model.Folder{}, nil
	}

	var rows []folderRow
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		s.logger.Error("listing folders", "error", err)
		return []model.Folder{}, nil
	}

	folders := make([]model.Folder, 0, len(rows))
	for i := range rows {
		folders = append(folders, rows[i].toModel())
	}
	return folders, nil
}

func (s *Store) GetFolderByID(ctx context.Context, id string) (*model.Folder, error) {
	if !s.available() {
		return nil, nil
	}

	var row folderRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("loading folder", "id", id, "error", err)
		}
		return nil, nil
	}
	folder := row.toModel()
	return &folder, nil
}

func (s *Store) AddFolder(ctx context.Context, in model.NewFolder) (*model.Folder, error) {
	if !s.available() {
		return nil, nil
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, store.ErrNotSignedIn
	}

	row := folderRow{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        in.Name,
		Description: in.Description,
		SetIDs:      jsonList[string]{},
		CreatedAt:   s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.logger.Error("creating folder", "error", err)
		return nil, nil
	}

	folder := row.toModel()
	return &folder, nil
}

func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	if !s.available() {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&folderRow{}).Error; err != nil {
		s.logger.Error("deleting folder", "id", id, "error", err)
	}
	return nil
}

// AddSetToFolder re-reads the folder, computes the updated id list in
// memory and writes the whole list back. The read-modify-write is not
// atomic: concurrent member additions to the same folder can race, and the
// last writer wins. Within one caller the re-read gives read-your-writes.
func (s *Store) AddSetToFolder(ctx context.Context, folderID, setID string) error {
	if !s.available() {
		return nil
	}

	folder, err := s.GetFolderByID(ctx, folderID)
	if err != nil || folder == nil {
		return err
	}
	if containsString(folder.SetIDs, setID) {
		return nil
	}

	ids := append(append([]string{}, folder.SetIDs...), setID)
	err = s.db.WithContext(ctx).Model(&folderRow{}).Where("id = ?", folderID).
		Update("set_ids", jsonList[string](ids)).Error
	if err != nil {
		s.logger.Error("adding set to folder", "folder", folderID, "set", setID, "error", err)
	}
	return nil
}

func (s *Store) RemoveSetFromFolder(ctx context.Context, folderID, setID string) error {
	if !s.available() {
		return nil
	}

	folder, err := s.GetFolderByID(ctx, folderID)
	if err != nil || folder == nil {
		return err
	}

	ids := make([]string, 0, len(folder.SetIDs))
	for _, id := range folder.SetIDs {
		if id != setID {
			ids = append(ids, id)
		}
	}
	err = s.db.WithContext(ctx).Model(&folderRow{}).Where("id = ?", folderID).
		Update("set_ids", jsonList[string](ids)).Error
	if err != nil {
		s.logger.Error("removing set from folder", "folder", folderID, "set", setID, "error", err)
	}
	return nil
}

// Groups

func (s *Store) GetGroups(ctx context.Context) ([]model.Group, error) {
	if !s.available() {
		return []model.Group{}, nil
	}

	var rows []groupRow
	err := s.db.WithContext(ctx).Preload("Members").Order("created_at desc").Find(&rows).Error
	if err != nil {
		s.logger.Error("listing groups", "error", err)
		return []model.Group{}, nil
	}

	groups := make([]model.Group, 0, len(rows))
	for i := range rows {
		groups = append(groups, rows[i].toModel())
	}
	return groups, nil
}

func (s *Store) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	if !s.available() {
		return nil, nil
	}

	var row groupRow
	err := s.db.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("loading group", "id", id, "error", err)
		}
		return nil, nil
	}
	group := row.toModel()
	return &group, nil
}

// AddGroup is a two-step composite: insert the group row, then insert the
// creator's membership record. The steps are not wrapped in a transaction;
// when the second step fails the group still exists, and the partial
// failure is reported as ErrCreatorMembership alongside the created group
// so the caller can tell it apart from total success.
func (s *Store) AddGroup(ctx context.Context, in model.NewGroup) (*model.Group, error) {
	if !s.available() {
		return nil, nil
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, store.ErrNotSignedIn
	}

	now := s.clock.Now()
	row := groupRow{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		School:      in.School,
		CreatedBy:   user.ID,
		SetIDs:      jsonList[string]{},
		CreatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.logger.Error("creating group", "error", err)
		return nil, nil
	}
	group := row.toModel()

	member := groupMemberRow{
		ID:        uuid.NewString(),
		GroupID:   row.ID,
		UserID:    user.ID,
		Username:  user.DisplayName(),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		s.logger.Error("recording creator membership", "group", row.ID, "error", err)
		return &group, store.ErrCreatorMembership
	}

	group.Members = []string{member.Username}
	return &group, nil
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	if !s.available() {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("group_id = ?", id).Delete(&groupMemberRow{}).Error; err != nil {
		s.logger.Error("deleting group memberships", "id", id, "error", err)
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&groupRow{}).Error; err != nil {
		s.logger.Error("deleting group", "id", id, "error", err)
	}
	return nil
}

// AddSetToGroup shares the read-modify-write contract of AddSetToFolder.
func (s *Store) AddSetToGroup(ctx context.Context, groupID, setID string) error {
	if !s.available() {
		return nil
	}

	group, err := s.GetGroupByID(ctx, groupID)
	if err != nil || group == nil {
		return err
	}
	if containsString(group.SetIDs, setID) {
		return nil
	}

	ids := append(append([]string{}, group.SetIDs...), setID)
	err = s.db.WithContext(ctx).Model(&groupRow{}).Where("id = ?", groupID).
		Update("set_ids", jsonList[string](ids)).Error
	if err != nil {
		s.logger.Error("adding set to group", "group", groupID, "set", setID, "error", err)
	}
	return nil
}

// AddMemberToGroup inserts a membership record. The user id is stamped from
// the current session when one exists; the username stands on its own
// otherwise.
func (s *Store) AddMemberToGroup(ctx context.Context, groupID, username string) error {
	if !s.available() {
		return nil
	}

	var userID string
	if user, err := s.currentUser(ctx); err == nil && user != nil {
		userID = user.ID
	}

	member := groupMemberRow{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		UserID:    userID,
		Username:  username,
		CreatedAt: s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		s.logger.Error("adding group member", "group", groupID, "username", username, "error", err)
	}
	return nil
}

func containsString(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

// migrate provisions the service tables the adapter expects.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{}, &studySetRow{}, &folderRow{}, &groupRow{}, &groupMemberRow{})
}

// Compile-time check that Store implements the storage contract
var _ store.Store = (*Store)(nil)
