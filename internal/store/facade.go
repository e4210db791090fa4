package store

import (
	"context"

	"fuizlet/internal/model"
)

// RemoteSource yields the remote backend when it is configured and
// reachable, and nil otherwise. Implementations must be cheap to call:
// the facade consults the source on every operation, so backend selection
// can change mid-session when configuration appears.
type RemoteSource interface {
	Remote() Store
}

// Facade is the single entry point consumers call. On every invocation it
// re-evaluates remote availability and dispatches to the local or remote
// backend; callers never branch on which backend is active.
type Facade struct {
	local  Store
	remote RemoteSource
}

// NewFacade creates a facade over the given local backend and remote source.
func NewFacade(local Store, remote RemoteSource) *Facade {
	return &Facade{local: local, remote: remote}
}

// IsCloud reports whether operations are currently served by the remote
// backend.
func (f *Facade) IsCloud() bool {
	return f.remote.Remote() != nil
}

// backend picks the backend for one call. Availability is re-checked every
// time; only the constructed remote client handle is memoized underneath.
func (f *Facade) backend() Store {
	if r := f.remote.Remote(); r != nil {
		return r
	}
	return f.local
}

// GetCurrentUser returns the signed-in user, or (nil, nil) when nobody is
// signed in. In local mode this is a cached object, not a verified session.
func (f *Facade) GetCurrentUser(ctx context.Context) (*model.User, error) {
	return f.backend().GetCurrentUser(ctx)
}

// SignUp creates an account. The two backends differ materially here: the
// remote backend registers a real credential with the auth service, while
// the local backend fabricates an unverified identity and caches it.
func (f *Facade) SignUp(ctx context.Context, email, password, username string) (*model.User, error) {
	if r := f.remote.Remote(); r != nil {
		return r.SignUp(ctx, email, password, username)
	}
	return f.local.SignUp(ctx, email, password, username)
}

// SignIn authenticates. Remote mode delegates to the auth service; local
// mode is a lookup against a locally stored credential list. Both report a
// bad pair as ErrInvalidCredentials, never as a panic.
func (f *Facade) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	if r := f.remote.Remote(); r != nil {
		return r.SignIn(ctx, email, password)
	}
	return f.local.SignIn(ctx, email, password)
}

func (f *Facade) Logout(ctx context.Context) error {
	return f.backend().Logout(ctx)
}

func (f *Facade) GetSets(ctx context.Context) ([]model.StudySet, error) {
	return f.backend().GetSets(ctx)
}

func (f *Facade) GetSetByID(ctx context.Context, id string) (*model.StudySet, error) {
	return f.backend().GetSetByID(ctx, id)
}

func (f *Facade) AddSet(ctx context.Context, in model.NewSet) (*model.StudySet, error) {
	return f.backend().AddSet(ctx, in)
}

func (f *Facade) UpdateSet(ctx context.Context, id string, in model.SetUpdate) error {
	return f.backend().UpdateSet(ctx, id, in)
}

func (f *Facade) DeleteSet(ctx context.Context, id string) error {
	return f.backend().DeleteSet(ctx, id)
}

func (f *Facade) GetFolders(ctx context.Context) ([]model.Folder, error) {
	return f.backend().GetFolders(ctx)
}

func (f *Facade) GetFolderByID(ctx context.Context, id string) (*model.Folder, error) {
	return f.backend().GetFolderByID(ctx, id)
}

func (f *Facade) AddFolder(ctx context.Context, in model.NewFolder) (*model.Folder, error) {
	return f.backend().AddFolder(ctx, in)
}

func (f *Facade) DeleteFolder(ctx context.Context, id string) error {
	return f.backend().DeleteFolder(ctx, id)
}

func (f *Facade) AddSetToFolder(ctx context.Context, folderID, setID string) error {
	return f.backend().AddSetToFolder(ctx, folderID, setID)
}

func (f *Facade) RemoveSetFromFolder(ctx context.Context, folderID, setID string) error {
	return f.backend().RemoveSetFromFolder(ctx, folderID, setID)
}

func (f *Facade) GetGroups(ctx context.Context) ([]model.Group, error) {
	return f.backend().GetGroups(ctx)
}

func (f *Facade) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	return f.backend().GetGroupByID(ctx, id)
}

func (f *Facade) AddGroup(ctx context.Context, in model.NewGroup) (*model.Group, error) {
	return f.backend().AddGroup(ctx, in)
}

func (f *Facade) DeleteGroup(ctx context.Context, id string) error {
	return f.backend().DeleteGroup(ctx, id)
}

func (f *Facade) AddSetToGroup(ctx context.Context, groupID, setID string) error {
	return f.backend().AddSetToGroup(ctx, groupID, setID)
}

func (f *Facade) AddMemberToGroup(ctx context.Context, groupID, username string) error {
	return f.backend().AddMemberToGroup(ctx, groupID, username)
}

// Compile-time check that Facade implements the Store interface
var _ Store = (*Facade)(nil)
