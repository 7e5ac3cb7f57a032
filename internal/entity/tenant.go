package entity

// Tenant links a user to a space with a role. At most one tenant per user is main.
type Tenant struct {
	BaseEntity
	UserID  string `gorm:"column:user_id;type:varchar(36);not null;index:idx_tenants_user_id"`
	SpaceID string `gorm:"column:space_id;type:varchar(36);not null"`
	RoleID  string `gorm:"column:role_id;type:varchar(36);not null"`
	Main    bool   `gorm:"column:main;not null"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func NewTenant(userID, spaceID, roleID string) *Tenant {
	return &Tenant{
		UserID:  userID,
		SpaceID: spaceID,
		RoleID:  roleID,
	}
}

func (t *Tenant) SetAsMain() {
	t.Main = true
}
