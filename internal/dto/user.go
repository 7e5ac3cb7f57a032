package dto

type UserResponse struct {
	ID    string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email string `json:"email" example:"user@example.com"`
	Name  string `json:"name" example:"Jane Doe"`
	Phone string `json:"phone" example:"010-1234-5678"`
}

type TenantResponse struct {
	ID      string `json:"id"`
	SpaceID string `json:"spaceId"`
	RoleID  string `json:"roleId"`
	Main    bool   `json:"main"`
}
