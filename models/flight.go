package models

import "time"

// FlightSchedule is one calendar day; flights on the same date share it.
type FlightSchedule struct {
	ID   uint      `gorm:"primaryKey;column:schedule_id" json:"schedule_id"`
	Date time.Time `gorm:"column:date;type:date;uniqueIndex;not null" json:"date"`
}

type Flight struct {
	FlightNo      uint      `gorm:"primaryKey;column:flight_no" json:"flight_no"`
	RouteID       uint      `gorm:"column:route_id;index;not null" json:"route_id"`
	ScheduleID    uint      `gorm:"column:schedule_id;index;not null" json:"schedule_id"`
	DepartureTime time.Time `gorm:"column:departure_time;not null" json:"departure_time"`
	ArrivalTime   time.Time `gorm:"column:arrival_time;not null" json:"arrival_time"`

	Route    FlightRoute    `gorm:"foreignKey:RouteID;references:ID" json:"route"`
	Schedule FlightSchedule `gorm:"foreignKey:ScheduleID;references:ID" json:"schedule"`
}
