package models

// Role - роль участника
type Role string

const (
	RoleOwner   Role = "owner"
	RoleVisitor Role = "visitor"
)

// Actor - тот, от чьего имени выполняется запрос
type Actor struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
}

// IsOwner сообщает, является ли актор владельцем коллекции
func (a Actor) IsOwner() bool {
	return a.Role == RoleOwner
}

// Anonymous сообщает, что актор не представился
func (a Actor) Anonymous() bool {
	return a.UserID == ""
}
