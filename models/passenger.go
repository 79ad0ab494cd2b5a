package models

import "time"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

type Passenger struct {
	ID        uint      `gorm:"primaryKey;column:passenger_id" json:"passenger_id"`
	FirstName string    `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Birthdate time.Time `gorm:"column:birthdate;type:date" json:"birthdate"`
	Gender    string    `gorm:"column:gender;size:10" json:"gender"`
}

func (p Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}
