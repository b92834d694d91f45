// Package audit implements the append-only login/logout log over
// GORM/Postgres.
package audit

import (
	"context"
	"time"

	"github.com/abbeysbank/banking/infra/repository/gormerr"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLog is a persisted session event row.
type UserLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id"`
	Action    string    `gorm:"type:varchar(16);not null"`
	Timestamp time.Time `gorm:"not null"`
}

// TableName specifies the table name for the UserLog model.
func (UserLog) TableName() string {
	return "user_log"
}

type auditRepository struct {
	db *gorm.DB
}

// New creates an audit repository bound to the given session.
func New(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, ev *domainaccount.AuditEvent) error {
	row := UserLog{
		UserID:    ev.AccountID,
		Action:    string(ev.Action),
		Timestamp: ev.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return gormerr.MapGormErrorToDomain(err)
	}
	ev.ID = row.ID
	return nil
}

func (r *auditRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domainaccount.AuditEvent, error) {
	var rows []UserLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, gormerr.MapGormErrorToDomain(err)
	}
	result := make([]*domainaccount.AuditEvent, 0, len(rows))
	for _, row := range rows {
		result = append(result, &domainaccount.AuditEvent{
			ID:        row.ID,
			AccountID: row.UserID,
			Action:    domainaccount.AuditAction(row.Action),
			CreatedAt: row.Timestamp,
		})
	}
	return result, nil
}
