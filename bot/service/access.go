package service

import (
	"fmt"
	"strings"

	"mqwatch/database"
	"mqwatch/database/model"
	"mqwatch/util/crypto"

	"gorm.io/gorm"
)

// NoMatchingGroupMsg is returned by SubmitPassword when the digest of the
// submitted password matches no group.
const NoMatchingGroupMsg = "No matching group found for the provided password"

// AccessService handles password-gated enrollment of users into topic groups.
type AccessService struct{}

// SubmitPassword enrolls the user into every group whose stored digest
// matches the submitted password. The user row is created lazily on the first
// match; user creation and all enrollments commit in a single transaction.
// Enrolling into a group the user is already a member of is reported as
// success, not as an error. The returned string is a user-facing result
// message, one line per matched group.
func (s *AccessService) SubmitPassword(userId int64, password string) (string, error) {
	db := database.GetDB()
	hash := crypto.HashPassword(password)

	var groupNames []string
	err := db.Model(model.Group{}).
		Where("password_hash = ?", hash).
		Order("group_name").
		Pluck("group_name", &groupNames).
		Error
	if err != nil {
		return "", err
	}
	if len(groupNames) == 0 {
		return NoMatchingGroupMsg, nil
	}

	var lines []string
	err = db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{}
		err := tx.Where("user_id = ?", userId).First(user).Error
		if database.IsNotFound(err) {
			user = &model.User{UserId: userId}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, groupName := range groupNames {
			var count int64
			err := tx.Model(model.Membership{}).
				Where("user_id = ? AND group_name = ?", userId, groupName).
				Count(&count).
				Error
			if err != nil {
				return err
			}
			if count > 0 {
				lines = append(lines, fmt.Sprintf("Already a member of group '%s'", groupName))
				continue
			}

			membership := &model.Membership{UserId: userId, GroupName: groupName}
			if err := tx.Create(membership).Error; err != nil {
				return err
			}
			lines = append(lines, fmt.Sprintf("Added to group '%s'", groupName))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// RemoveUser deletes the user's membership in the given group. When it was
// the user's last membership the user row is deleted too, in the same
// transaction, so a racing enrollment cannot leave a dangling membership.
func (s *AccessService) RemoveUser(userId int64, groupName string) error {
	db := database.GetDB()

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND group_name = ?", userId, groupName).
			Delete(&model.Membership{}).
			Error
		if err != nil {
			return err
		}

		var count int64
		err = tx.Model(model.Membership{}).
			Where("user_id = ?", userId).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		if count == 0 {
			return tx.Where("user_id = ?", userId).Delete(&model.User{}).Error
		}
		return nil
	})
}
