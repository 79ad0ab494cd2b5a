package models

import "time"

type CrewMember struct {
	ID        uint   `gorm:"primaryKey;column:crew_id" json:"crew_id"`
	FirstName string `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Role      string `gorm:"column:role;size:100;not null" json:"role"`
}

type CrewAssignment struct {
	ID             uint      `gorm:"primaryKey;column:crew_assignment_id" json:"crew_assignment_id"`
	CrewID         uint      `gorm:"column:crew_id;index;not null" json:"crew_id"`
	FlightNo       uint      `gorm:"column:flight_no;index;not null" json:"flight_no"`
	AssignmentDate time.Time `gorm:"column:assignment_date;type:date" json:"assignment_date"`

	Crew   CrewMember `gorm:"-" json:"crew"`
	Flight Flight     `gorm:"-" json:"flight"`
}
