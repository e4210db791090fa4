package remote

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"fuizlet/internal/model"
)

// jsonList stores an ordered list as a JSON document column. A nil list is
// stored and scanned as an empty list, never as SQL NULL, which keeps the
// "sequence is always present" invariant at the row level.
type jsonList[T any] []T

func (l jsonList[T]) Value() (driver.Value, error) {
	if l == nil {
		l = []T{}
	}
	raw, err := json.Marshal([]T(l))
	if err != nil {
		return nil, fmt.Errorf("encoding list column: %w", err)
	}
	return string(raw), nil
}

func (l *jsonList[T]) Scan(src any) error {
	if src == nil {
		*l = []T{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported list column type %T", src)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decoding list column: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	*l = items
	return nil
}

// userRow is a registered account in the hosted service.
type userRow struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Username     string    `gorm:"column:username"`
	PasswordHash []byte    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID:        r.ID,
		Email:     r.Email,
		Username:  r.Username,
		Metadata:  map[string]string{"username": r.Username},
		CreatedAt: r.CreatedAt,
	}
}

// studySetRow is the hosted shape of a study set.
type studySetRow struct {
	ID          string               `gorm:"column:id;primaryKey"`
	UserID      string               `gorm:"column:user_id;index"`
	Title       string               `gorm:"column:title;not null"`
	Description string               `gorm:"column:description"`
	Terms       jsonList[model.Term] `gorm:"column:terms;type:jsonb"`
	CreatedAt   time.Time            `gorm:"column:created_at;index"`
	UpdatedAt   time.Time            `gorm:"column:updated_at"`
}

func (studySetRow) TableName() string { return "study_sets" }

func (r *studySetRow) toModel() model.StudySet {
	terms := []model.Term(r.Terms)
	if terms == nil {
		terms = []model.Term{}
	}
	return model.StudySet{
		ID:          r.ID,
		OwnerID:     r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Terms:       terms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// folderRow is the hosted shape of a folder. The set_ids column becomes the
// logical SetIDs field.
type folderRow struct {
	ID          string           `gorm:"column:id;primaryKey"`
	UserID      string           `gorm:"column:user_id;index"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description"`
	SetIDs      jsonList[string] `gorm:"column:set_ids;type:jsonb"`
	CreatedAt   time.Time        `gorm:"column:created_at;index"`
}

func (folderRow) TableName() string { return "folders" }

func (r *folderRow) toModel() model.Folder {
	ids := []string(r.SetIDs)
	if ids == nil {
		ids = []string{}
	}
	return model.Folder{
		ID:          r.ID,
		OwnerID:     r.UserID,
		Name:        r.Name,
		Description: r.Description,
		SetIDs:      ids,
	}
}

// groupRow is the hosted shape of a group. Members are a separate relation,
// flattened to an ordered username list during normalization; the join
// shape never leaves this package.
type groupRow struct {
	ID          string           `gorm:"column:id;primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description"`
	School      string           `gorm:"column:school"`
	CreatedBy   string           `gorm:"column:created_by;index"`
	SetIDs      jsonList[string] `gorm:"column:set_ids;type:jsonb"`
	CreatedAt   time.Time        `gorm:"column:created_at;index"`

	Members []groupMemberRow `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
}

func (groupRow) TableName() string { return "groups" }

func (r *groupRow) toModel() model.Group {
	ids := []string(r.SetIDs)
	if ids == nil {
		ids = []string{}
	}
	members := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, m.Username)
	}
	return model.Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		School:      r.School,
		CreatedBy:   r.CreatedBy,
		SetIDs:      ids,
		Members:     members,
	}
}

// groupMemberRow is one membership record in the group_members relation.
type groupMemberRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	GroupID   string    `gorm:"column:group_id;index;not null"`
	UserID    string    `gorm:"column:user_id"`
	Username  string    `gorm:"column:username;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (groupMemberRow) TableName() string { return "group_members" }
