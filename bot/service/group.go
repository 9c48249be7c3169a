package service

import (
	"mqwatch/database"
	"mqwatch/database/model"
	"mqwatch/util/crypto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupService manages topic access groups.
type GroupService struct{}

// ListGroupNames returns the names of all provisioned groups.
func (s *GroupService) ListGroupNames() ([]string, error) {
	db := database.GetDB()

	var names []string
	err := db.Model(model.Group{}).
		Order("group_name").
		Pluck("group_name", &names).
		Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// AddGroup creates the access group for a topic, storing only the password
// digest. Creating an already provisioned group is a no-op, so provisioning
// stays idempotent across polling passes.
func (s *GroupService) AddGroup(groupName string, password string) error {
	db := database.GetDB()

	group := &model.Group{
		GroupName:    groupName,
		PasswordHash: crypto.HashPassword(password),
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_name"}},
		DoNothing: true,
	}).Create(group).Error
}

// DeleteGroup removes a group and its memberships. Users left without any
// membership are removed as well, keeping the user lifecycle tied to group
// membership.
func (s *GroupService) DeleteGroup(groupName string) error {
	db := database.GetDB()

	return db.Transaction(func(tx *gorm.DB) error {
		var userIds []int64
		err := tx.Model(model.Membership{}).
			Where("group_name = ?", groupName).
			Pluck("user_id", &userIds).
			Error
		if err != nil {
			return err
		}

		err = tx.Where("group_name = ?", groupName).
			Delete(&model.Membership{}).
			Error
		if err != nil {
			return err
		}

		for _, userId := range userIds {
			var count int64
			err = tx.Model(model.Membership{}).
				Where("user_id = ?", userId).
				Count(&count).
				Error
			if err != nil {
				return err
			}
			if count == 0 {
				if err = tx.Where("user_id = ?", userId).Delete(&model.User{}).Error; err != nil {
					return err
				}
			}
		}

		return tx.Where("group_name = ?", groupName).
			Delete(&model.Group{}).
			Error
	})
}

// GetUserGroups returns the names of the groups the user belongs to.
func (s *GroupService) GetUserGroups(userId int64) ([]string, error) {
	db := database.GetDB()

	var names []string
	err := db.Model(model.Membership{}).
		Where("user_id = ?", userId).
		Order("group_name").
		Pluck("group_name", &names).
		Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// GetGroupUsers returns the ids of the users enrolled in a group.
func (s *GroupService) GetGroupUsers(groupName string) ([]int64, error) {
	db := database.GetDB()

	var userIds []int64
	err := db.Model(model.Membership{}).
		Where("group_name = ?", groupName).
		Pluck("user_id", &userIds).
		Error
	if err != nil {
		return nil, err
	}
	return userIds, nil
}

// ListUserIds returns the ids of all known users.
func (s *GroupService) ListUserIds() ([]int64, error) {
	db := database.GetDB()

	var userIds []int64
	err := db.Model(model.User{}).
		Order("user_id").
		Pluck("user_id", &userIds).
		Error
	if err != nil {
		return nil, err
	}
	return userIds, nil
}
