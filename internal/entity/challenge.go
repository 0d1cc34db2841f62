package entity

type Challenge struct {
	Base

	Title       string
	Description string

	// Duration is the challenge length in days.
	Duration    int
	TasksPerDay int

	IsActive bool `gorm:"default:true"`
}
