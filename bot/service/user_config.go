package service

import (
	"encoding/json"

	"mqwatch/database"
	"mqwatch/database/model"
	"mqwatch/logger"
	"mqwatch/util/json_util"
)

// UserConfigService reads and writes the per-user configuration document
// (limits and renames). Writes are read-modify-write over the whole document;
// two concurrent writers for the same user can lose an update. The polling
// pass re-reads the document on the next tick, so a lost write surfaces at
// worst one tick late.
type UserConfigService struct{}

// GetConfig loads the user's configuration document. A missing user row or a
// NULL config column yields (nil, nil): absent, not an error.
func (s *UserConfigService) GetConfig(userId int64) (*model.UserConfig, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Where("user_id = ?", userId).First(user).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if len(user.Config) == 0 {
		return nil, nil
	}

	config := &model.UserConfig{}
	if err := json.Unmarshal(user.Config, config); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *UserConfigService) setConfig(userId int64, config *model.UserConfig) error {
	db := database.GetDB()

	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return db.Model(model.User{}).
		Where("user_id = ?", userId).
		Update("config", json_util.RawMessage(data)).
		Error
}

// SetLimit sets one limit value for a topic, creating the limits namespace
// and the topic entry as needed.
func (s *UserConfigService) SetLimit(userId int64, topic string, limitName string, value float64) error {
	config, err := s.GetConfig(userId)
	if err != nil {
		return err
	}
	if config == nil {
		config = &model.UserConfig{}
	}
	if config.Limits == nil {
		config.Limits = make(map[string]map[string]float64)
	}
	if config.Limits[topic] == nil {
		config.Limits[topic] = make(map[string]float64)
	}
	config.Limits[topic][limitName] = value
	return s.setConfig(userId, config)
}

// GetLimit returns the configured value for one limit name on a topic. The
// second result reports presence; a missing namespace, topic or limit is not
// an error.
func (s *UserConfigService) GetLimit(userId int64, topic string, limitName string) (float64, bool, error) {
	config, err := s.GetConfig(userId)
	if err != nil {
		return 0, false, err
	}
	if config == nil || config.Limits == nil {
		return 0, false, nil
	}
	limits, ok := config.Limits[topic]
	if !ok {
		return 0, false, nil
	}
	value, ok := limits[limitName]
	return value, ok, nil
}

// ListLimits returns the whole limits namespace, nil when absent.
func (s *UserConfigService) ListLimits(userId int64) (map[string]map[string]float64, error) {
	config, err := s.GetConfig(userId)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}
	return config.Limits, nil
}

// SetRename sets the display name of a topic for the user.
func (s *UserConfigService) SetRename(userId int64, topic string, newName string) error {
	config, err := s.GetConfig(userId)
	if err != nil {
		return err
	}
	if config == nil {
		config = &model.UserConfig{}
	}
	if config.Renames == nil {
		config.Renames = make(map[string]string)
	}
	config.Renames[topic] = newName
	return s.setConfig(userId, config)
}

// GetRename returns the display name configured for a topic. The second
// result reports presence.
func (s *UserConfigService) GetRename(userId int64, topic string) (string, bool, error) {
	config, err := s.GetConfig(userId)
	if err != nil {
		return "", false, err
	}
	if config == nil || config.Renames == nil {
		return "", false, nil
	}
	name, ok := config.Renames[topic]
	return name, ok, nil
}

// ListRenames returns the whole renames namespace, nil when absent.
func (s *UserConfigService) ListRenames(userId int64) (map[string]string, error) {
	config, err := s.GetConfig(userId)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}
	return config.Renames, nil
}

// TopicName resolves the display name of a topic for the user: the rename if
// one is set, the raw topic name otherwise. Every outward-facing message
// referencing a topic goes through this.
func (s *UserConfigService) TopicName(userId int64, topic string) string {
	name, ok, err := s.GetRename(userId, topic)
	if err != nil {
		logger.Warning("resolve topic name failed:", err)
		return topic
	}
	if !ok {
		return topic
	}
	return name
}
