package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"airline-backoffice/models"
	"airline-backoffice/utils"
)

type CrewService struct {
	DB *gorm.DB
}

func NewCrewService(db *gorm.DB) *CrewService {
	return &CrewService{DB: db}
}

// AssignCrewInput takes either CrewID or the details of a new crew member.
type AssignCrewInput struct {
	CrewID         uint
	FirstName      string
	LastName       string
	Role           string
	FlightNo       uint
	AssignmentDate string // optional, defaults to today
}

func (s *CrewService) ListCrew(ctx context.Context) ([]models.CrewMember, error) {
	var out []models.CrewMember
	err := s.DB.WithContext(ctx).
		Order("last_name ASC").
		Order("first_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list crew: %w", err)
	}
	return out, nil
}

func (s *CrewService) ListAssignments(ctx context.Context) ([]models.CrewAssignment, error) {
	db := s.DB.WithContext(ctx)
	var out []models.CrewAssignment
	err := db.
		Order("assignment_date DESC").
		Order("crew_assignment_id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list crew assignments: %w", err)
	}
	if err := attachCrew(db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Assign puts a crew member on a flight. A new crew member is created in the
// same transaction as the assignment.
func (s *CrewService) Assign(ctx context.Context, in AssignCrewInput) (models.CrewAssignment, error) {
	if in.FlightNo == 0 {
		return models.CrewAssignment{}, fieldError("flight_no", "Flight is required.")
	}

	newCrew := models.CrewMember{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      strings.TrimSpace(in.Role),
	}
	if in.CrewID == 0 && (newCrew.FirstName == "" || newCrew.LastName == "" || newCrew.Role == "") {
		return models.CrewAssignment{}, fieldError("crew_id",
			"Select an existing crew member or provide details for a new one.")
	}

	day := utils.DateOnly(time.Now().UTC())
	if strings.TrimSpace(in.AssignmentDate) != "" {
		d, err := utils.ParseDate(in.AssignmentDate)
		if err != nil {
			return models.CrewAssignment{}, malformed("assignment_date: %v", err)
		}
		day = d
	}

	var out models.CrewAssignment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flight models.Flight
		if err := tx.First(&flight, "flight_no = ?", in.FlightNo).Error; err != nil {
			return dbError(err, "flight", in.FlightNo)
		}

		var crew models.CrewMember
		if in.CrewID != 0 {
			if err := tx.First(&crew, in.CrewID).Error; err != nil {
				return dbError(err, "crew member", in.CrewID)
			}
		} else {
			crew = newCrew
			if err := tx.Create(&crew).Error; err != nil {
				return fmt.Errorf("create crew member: %w", err)
			}
		}

		out = models.CrewAssignment{
			CrewID:         crew.ID,
			FlightNo:       flight.FlightNo,
			AssignmentDate: day,
		}
		if err := tx.Create(&out).Error; err != nil {
			return fmt.Errorf("create crew assignment: %w", err)
		}
		out.Crew = crew
		out.Flight = flight
		return nil
	})
	if err != nil {
		return models.CrewAssignment{}, err
	}
	return out, nil
}
