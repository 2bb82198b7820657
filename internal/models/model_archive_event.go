package models

import "time"

// ArchiveEvent is one archive run recorded for history display. Events
// are append-only: no updates, no deletions, ordered by append order
// within a base.
type ArchiveEvent struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"-"`
	ArchiveID string `gorm:"column:archive_id;type:varchar(64);not null;uniqueIndex" json:"archiveId"`
	BaseID    string `gorm:"column:base_id;type:varchar(64);not null;index:idx_archive_base_seq,priority:1" json:"-"`
	// Seq preserves append order per base independent of clock skew.
	Seq         int64     `gorm:"column:seq;autoIncrement;index:idx_archive_base_seq,priority:2" json:"-"`
	TableID     string    `gorm:"column:table_id;type:varchar(64);not null" json:"tableId"`
	RecordCount int       `gorm:"column:record_count;not null" json:"recordCount"`
	RuleID      string    `gorm:"column:rule_id;type:varchar(64)" json:"ruleId"`
	RuleName    string    `gorm:"column:rule_name;type:varchar(255)" json:"ruleName,omitempty"`
	ArchivedAt  time.Time `gorm:"column:archived_at;not null" json:"archivedAt"`
	CreatedAt   time.Time `json:"-"`
}

func (ArchiveEvent) TableName() string {
	return "archive_event"
}
