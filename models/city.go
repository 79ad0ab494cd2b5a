package models

type City struct {
	ID       uint   `gorm:"primaryKey;column:city_id" json:"city_id"`
	CityName string `gorm:"column:city_name;size:100;uniqueIndex;not null" json:"city_name"`
}
