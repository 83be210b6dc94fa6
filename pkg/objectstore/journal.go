package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snow/pkg/model"
)

// JournalConfig selects and configures the derived SQL journal. Driver
// is "sqlite" (the default, a local file next to the other commondir
// state) or "postgres".
type JournalConfig struct {
	Driver string
	DSN    string
}

// refRow mirrors a reference as a row so history and branch listing can
// be served with ordinary SQL instead of scanning every JSON file.
type refRow struct {
	Name       string `gorm:"primaryKey;type:varchar(255)"`
	CommitHash string `gorm:"type:char(64);not null"`
	UpdatedAt  time.Time
}

func (refRow) TableName() string { return "refs" }

// commitRow is a queryable projection of model.Commit. Parents and
// UserData are stored as JSON so arbitrary commit metadata (e.g.
// training metrics, tags) remains searchable without a schema change.
type commitRow struct {
	Hash      string `gorm:"primaryKey;type:char(64)"`
	Message   string `gorm:"type:text"`
	Timestamp int64  `gorm:"index"`
	RootPath  string `gorm:"type:varchar(255)"`
	Parents   datatypes.JSON
	UserData  datatypes.JSON `gorm:"index:idx_commit_userdata"`
	CreatedAt time.Time
}

func (commitRow) TableName() string { return "commits" }

// Journal is a derived, rebuildable mirror of the commit and reference
// log. It is never consulted as a source of truth; a missing or
// corrupt journal never blocks repository operations, only degrades
// history queries until it is rebuilt from the JSON state.
type Journal struct {
	db *gorm.DB
}

func OpenJournal(ctx context.Context, cfg JournalConfig) (*Journal, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "journal.db"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&refRow{}, &commitRow{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) RecordCommit(c model.Commit) error {
	parents, err := json.Marshal(c.Parents)
	if err != nil {
		return err
	}
	userData, err := json.Marshal(c.UserData)
	if err != nil {
		return err
	}

	row := commitRow{
		Hash:      c.Hash,
		Message:   c.Message,
		Timestamp: c.Date.Unix(),
		RootPath:  c.Root.Path,
		Parents:   datatypes.JSON(parents),
		UserData:  datatypes.JSON(userData),
	}
	return j.db.Save(&row).Error
}

func (j *Journal) RecordReference(r model.Reference) error {
	row := refRow{Name: r.Name, CommitHash: r.Hash, UpdatedAt: time.Now()}
	return j.db.Save(&row).Error
}

func (j *Journal) RemoveReference(name string) error {
	return j.db.Where("name = ?", name).Delete(&refRow{}).Error
}

// History returns commits ordered newest first, optionally limited.
// It is a convenience for the CLI's log command; callers needing
// authoritative parent-chain traversal should walk model.Commit.Parents
// from the JSON store instead.
func (j *Journal) History(limit int) ([]model.Commit, error) {
	var rows []commitRow
	q := j.db.Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	commits := make([]model.Commit, 0, len(rows))
	for _, row := range rows {
		var parents []string
		if err := json.Unmarshal(row.Parents, &parents); err != nil {
			return nil, err
		}
		var userData map[string]any
		if err := json.Unmarshal(row.UserData, &userData); err != nil {
			return nil, err
		}
		commits = append(commits, model.Commit{
			Hash:     row.Hash,
			Message:  row.Message,
			Date:     time.Unix(row.Timestamp, 0).UTC(),
			Parents:  parents,
			UserData: userData,
		})
	}
	return commits, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
