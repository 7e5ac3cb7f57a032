package entity

type User struct {
	BaseEntity
	Email    string `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uk_users_email"`
	Password string `gorm:"column:password;type:varchar(255);not null"`
	Name     string `gorm:"column:name;type:varchar(50);not null;uniqueIndex:uk_users_name"`
	Phone    string `gorm:"column:phone;type:varchar(20);not null;uniqueIndex:uk_users_phone"`
}

func (User) TableName() string {
	return "users"
}

// NewUser builds an unsaved user. hashedPassword must already be a bcrypt hash.
func NewUser(email, hashedPassword, name, phone string) *User {
	return &User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Phone:    phone,
	}
}

func (u *User) ChangePassword(hashedPassword string) {
	u.Password = hashedPassword
}

func (u *User) UpdateProfile(name string) {
	u.Name = name
}
