package entity

import "time"

// BaseEntity carries the audit columns shared by every table.
// The repository fills them in on save; gorm's own timestamp tracking is off.
type BaseEntity struct {
	ID        string     `gorm:"column:id;type:varchar(36);primaryKey"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	RemovedAt *time.Time `gorm:"column:removed_at"`
	CreatedBy string     `gorm:"column:created_by;type:varchar(36);not null"`
	UpdatedBy string     `gorm:"column:updated_by;type:varchar(36);not null"`
}

// IsNew reports whether the entity has never been persisted.
func (b *BaseEntity) IsNew() bool {
	return b.ID == ""
}

func (b *BaseEntity) IsRemoved() bool {
	return b.RemovedAt != nil
}

// SoftDelete marks the row removed. Calling it twice keeps the first timestamp.
func (b *BaseEntity) SoftDelete(now time.Time) {
	if b.RemovedAt != nil {
		return
	}
	t := now.UTC()
	b.RemovedAt = &t
}

// Base exposes the embedded audit fields to the repository auditor.
func (b *BaseEntity) Base() *BaseEntity {
	return b
}
