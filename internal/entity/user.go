package entity

import "database/sql"

type User struct {
	Base

	Name      string `gorm:"index"`
	Email     string `gorm:"unique"`
	AvatarURL sql.NullString
}
