package model

import "time"

// Avatar selects one of the built-in avatar pictures the UI can render.
type Avatar string

const (
	AvatarBoy1     Avatar = "boy1"
	AvatarBoy2     Avatar = "boy2"
	AvatarBoy3     Avatar = "boy3"
	AvatarGirl1    Avatar = "girl1"
	AvatarGirl2    Avatar = "girl2"
	AvatarGirl3    Avatar = "girl3"
	AvatarNeutral1 Avatar = "neutral1"
	AvatarNeutral2 Avatar = "neutral2"
	AvatarNeutral3 Avatar = "neutral3"
)

// DefaultAvatar is used when a kid is created without picking one.
const DefaultAvatar = AvatarNeutral1

// Valid reports whether a is one of the known avatars.
func (a Avatar) Valid() bool {
	switch a {
	case AvatarBoy1, AvatarBoy2, AvatarBoy3,
		AvatarGirl1, AvatarGirl2, AvatarGirl3,
		AvatarNeutral1, AvatarNeutral2, AvatarNeutral3:
		return true
	}
	return false
}

// Kid is a child whose tasks are tracked. Deleting a kid removes all of
// their tasks and achievements; the cascade is orchestrated by the services,
// not the store.
type Kid struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Avatar    Avatar    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
