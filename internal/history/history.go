package history

import (
	"context"
	"fmt"
	"time"

	"github.com/atinylittleshell/tabgroups/internal/urlbar"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type HistoryManager struct {
	db *gorm.DB
}

type PickEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Provider   string `gorm:"index"`
	Key        string
	ActionKind string
	Query      string
}

func NewHistoryManager(dbFilePath string) (*HistoryManager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening history database: %w", err)
	}

	if err := db.AutoMigrate(&PickEntry{}); err != nil {
		return nil, fmt.Errorf("error auto-migrating history schema: %w", err)
	}

	return &HistoryManager{
		db: db,
	}, nil
}

// RecordPick implements urlbar.PickRecorder.
func (historyManager *HistoryManager) RecordPick(ctx context.Context, qc *urlbar.QueryContext, result urlbar.ActionsResult) error {
	entry := PickEntry{
		Provider: result.ProviderName,
		Key:      result.Key,
	}
	if result.Action != nil {
		entry.ActionKind = string(result.Action.Kind())
	}
	if qc != nil {
		entry.Query = qc.TrimmedSearchString
	}

	return historyManager.db.WithContext(ctx).Create(&entry).Error
}

func (historyManager *HistoryManager) GetRecentPicks(limit int) ([]PickEntry, error) {
	var entries []PickEntry
	result := historyManager.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// CountPicks returns how often each key of a provider was picked.
func (historyManager *HistoryManager) CountPicks(provider string) (map[string]int, error) {
	var rows []struct {
		Key   string
		Count int
	}
	result := historyManager.db.Model(&PickEntry{}).
		Select("`key`, count(*) as count").
		Where("provider = ?", provider).
		Group("`key`").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (historyManager *HistoryManager) ResetHistory() error {
	result := historyManager.db.Exec("DELETE FROM pick_entries")
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (historyManager *HistoryManager) Close() error {
	sqlDB, err := historyManager.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
