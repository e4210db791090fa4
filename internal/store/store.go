// Package store defines the shared contract both storage backends implement,
// and the facade that picks a backend per call.
package store

import (
	"context"
	"errors"

	"fuizlet/internal/model"
)

// ErrInvalidCredentials is returned by SignIn when the email/password pair
// does not match a known user. It is a value, never a panic.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotSignedIn is returned by remote writes that require an authenticated
// user when no session is present.
var ErrNotSignedIn = errors.New("not signed in")

// ErrCreatorMembership reports the partial failure of group creation: the
// group row was inserted but recording the creator's membership failed.
// AddGroup returns the created group alongside this error so callers can
// tell partial success from total failure.
var ErrCreatorMembership = errors.New("group created but creator membership was not recorded")

// Store is the single contract the application codes against. Both backends
// implement every operation, even where one implementation is a stub.
//
// Not-found is reported as (nil, nil), not as an error. All operations take
// a context because the remote backend suspends at the service boundary;
// the local backend completes synchronously but honors the same shape.
//
// Concurrency contract: membership updates (folder/group set ids) are
// read-modify-write with no locking. Two concurrent writers race and the
// last writer wins. Single-user local mode has no concurrent writers in
// practice; remote multi-user callers must accept this.
type Store interface {
	// Auth
	GetCurrentUser(ctx context.Context) (*model.User, error)
	SignUp(ctx context.Context, email, password, username string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context) error

	// Study sets
	GetSets(ctx context.Context) ([]model.StudySet, error)
	GetSetByID(ctx context.Context, id string) (*model.StudySet, error)
	AddSet(ctx context.Context, in model.NewSet) (*model.StudySet, error)
	UpdateSet(ctx context.Context, id string, in model.SetUpdate) error
	DeleteSet(ctx context.Context, id string) error

	// Folders
	GetFolders(ctx context.Context) ([]model.Folder, error)
	GetFolderByID(ctx context.Context, id string) (*model.Folder, error)
	AddFolder(ctx context.Context, in model.NewFolder) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	AddSetToFolder(ctx context.Context, folderID, setID string) error
	RemoveSetFromFolder(ctx context.Context, folderID, setID string) error

	// Groups
	GetGroups(ctx context.Context) ([]model.Group, error)
	GetGroupByID(ctx context.Context, id string) (*model.Group, error)
	AddGroup(ctx context.Context, in model.NewGroup) (*model.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	AddSetToGroup(ctx context.Context, groupID, setID string) error
	AddMemberToGroup(ctx context.Context, groupID, username string) error
}
