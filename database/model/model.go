package model

import (
	"mqwatch/util/json_util"
)

// Limit names recognized by the threshold checker. The lower_ prefix marks a
// floor, the upper_ prefix a ceiling.
const (
	LowerLimit = "lower_limit"
	UpperLimit = "upper_limit"
	LowerPanic = "lower_panic"
	UpperPanic = "upper_panic"
)

// LimitNames lists the valid limit names in menu order.
var LimitNames = []string{LowerLimit, UpperLimit, LowerPanic, UpperPanic}

// Group gates one telemetry topic behind a shared password. The group name
// identifies the topic 1:1; only the password digest is stored.
type Group struct {
	Id           int          `json:"id" gorm:"primaryKey;autoIncrement"`
	GroupName    string       `json:"groupName" gorm:"unique"`
	PasswordHash string       `json:"-"`
	Memberships  []Membership `json:"-" gorm:"foreignKey:GroupName;references:GroupName"`
}

// User is one chat identity. Config holds the per-user configuration document
// and stays NULL until the first limit or rename is written.
type User struct {
	Id          int                  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId      int64                `json:"userId" gorm:"unique"`
	Config      json_util.RawMessage `json:"config" gorm:"type:json"`
	Memberships []Membership         `json:"-" gorm:"foreignKey:UserId;references:UserId"`
}

// Membership enrolls a user in a group. Both referenced rows must exist; a
// membership never outlives its user or its group.
type Membership struct {
	UserId    int64  `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	GroupName string `json:"groupName" gorm:"primaryKey"`
}

func (Membership) TableName() string {
	return "user_groups"
}

// UserConfig is the structured form of User.Config. The limits and renames
// namespaces are independent and absent (nil) until first written; readers
// must treat a missing namespace or topic key as "not configured", not as an
// error.
type UserConfig struct {
	Limits  map[string]map[string]float64 `json:"limits,omitempty"`
	Renames map[string]string             `json:"renames,omitempty"`
}
