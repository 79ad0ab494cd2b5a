package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"airline-backoffice/models"
	"airline-backoffice/utils"
)

type PassengerService struct {
	DB *gorm.DB
}

func NewPassengerService(db *gorm.DB) *PassengerService {
	return &PassengerService{DB: db}
}

type CreatePassengerInput struct {
	FirstName string
	LastName  string
	Birthdate string
	Gender    string
}

func validGender(g string) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}

func (s *PassengerService) List(ctx context.Context) ([]models.Passenger, error) {
	var out []models.Passenger
	err := s.DB.WithContext(ctx).
		Order("last_name ASC").
		Order("first_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}
	return out, nil
}

func (s *PassengerService) Get(ctx context.Context, id uint) (models.Passenger, error) {
	var p models.Passenger
	err := s.DB.WithContext(ctx).First(&p, id).Error
	return p, dbError(err, "passenger", id)
}

func (s *PassengerService) Create(ctx context.Context, in CreatePassengerInput) (models.Passenger, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" {
		return models.Passenger{}, fieldError("first_name", "First name is required.")
	}
	if last == "" {
		return models.Passenger{}, fieldError("last_name", "Last name is required.")
	}
	if !validGender(in.Gender) {
		return models.Passenger{}, fieldError("gender", "Gender must be Male, Female or Other.")
	}
	birth, err := utils.ParseDate(in.Birthdate)
	if err != nil {
		return models.Passenger{}, malformed("birthdate: %v", err)
	}

	p := models.Passenger{
		FirstName: first,
		LastName:  last,
		Birthdate: birth,
		Gender:    in.Gender,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Passenger{}, fmt.Errorf("create passenger: %w", err)
	}
	return p, nil
}

// Delete refuses to remove a passenger that still has bookings.
func (s *PassengerService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Passenger
		if err := tx.First(&p, id).Error; err != nil {
			return dbError(err, "passenger", id)
		}
		var n int64
		if err := tx.Model(&models.Booking{}).Where("passenger_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count bookings of passenger %d: %w", id, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: passenger %d has %d booking(s)", ErrConflict, id, n)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete passenger %d: %w", id, err)
		}
		return nil
	})
}
