package models

// FlightRoute connects two different cities. Duration is in minutes.
type FlightRoute struct {
	ID                uint `gorm:"primaryKey;column:route_id" json:"route_id"`
	OriginCityID      uint `gorm:"column:origin_city_id;index;not null" json:"origin_city_id"`
	DestinationCityID uint `gorm:"column:destination_city_id;index;not null" json:"destination_city_id"`
	Duration          int  `gorm:"column:duration;not null;default:0" json:"duration"`

	OriginCity      City `gorm:"foreignKey:OriginCityID;references:ID;constraint:OnDelete:RESTRICT" json:"origin_city"`
	DestinationCity City `gorm:"foreignKey:DestinationCityID;references:ID;constraint:OnDelete:RESTRICT" json:"destination_city"`
}
