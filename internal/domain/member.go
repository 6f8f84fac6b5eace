package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Member is a registered shopper. Username is the login email.
type Member struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Profile      Profile   `json:"profile"`
}

// Profile holds the per-member data created alongside the member row.
type Profile struct {
	MemberID int64     `json:"memberId"`
	Address  string    `json:"address"`
	Role     Role      `json:"role"`
	RegDate  time.Time `json:"regdate"`
}

func (m Member) IsAdmin() bool {
	return m.Profile.Role == RoleAdmin
}
