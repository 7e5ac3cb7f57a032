package repository

import (
	"context"
	"time"

	"plate-server/internal/common"
	"plate-server/internal/entity"

	"github.com/google/uuid"
)

type audited interface {
	Base() *entity.BaseEntity
}

// auditor stamps the BaseEntity columns before a row is written.
type auditor struct {
	now func() time.Time
}

// stamp reports whether the entity is being created.
func (a auditor) stamp(ctx context.Context, e audited) bool {
	base := e.Base()
	actor := common.ActorFrom(ctx)
	now := a.now().UTC()

	created := base.IsNew()
	if created {
		base.ID = uuid.NewString()
		base.CreatedAt = now
		base.CreatedBy = actor
	}
	base.UpdatedAt = now
	base.UpdatedBy = actor
	return created
}
