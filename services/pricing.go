package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"airline-backoffice/models"
	"airline-backoffice/session"
)

const (
	BaggageItemDescription   = "Additional baggage allowance (5 kg)"
	InsuranceItemDescription = "Travel Insurance"
)

var (
	DefaultBaggageRate   = decimal.RequireFromString("237.00")
	DefaultInsuranceRate = decimal.RequireFromString("208.00")
)

// Rates are the add-on items as currently stored.
type Rates struct {
	Baggage   models.AdditionalItem `json:"baggage"`
	Insurance models.AdditionalItem `json:"insurance"`
}

// Quote is the cost breakdown of a session with the given add-ons.
type Quote struct {
	FlightsCost    decimal.Decimal `json:"flights_cost"`
	BaggageCount   int             `json:"baggage_count"`
	BaggageRate    decimal.Decimal `json:"baggage_rate"`
	BaggageCost    decimal.Decimal `json:"baggage_cost"`
	HasInsurance   bool            `json:"has_insurance"`
	InsuranceRate  decimal.Decimal `json:"insurance_rate"`
	InsuranceCost  decimal.Decimal `json:"insurance_cost"`
	AdditionalCost decimal.Decimal `json:"additional_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

type PricingService struct {
	DB *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{DB: db}
}

// LatestItineraryCost returns the cost of the most recently created
// itinerary item for flightNo. ok is false when the flight was never itemized.
func LatestItineraryCost(db *gorm.DB, flightNo uint) (cost decimal.Decimal, ok bool, err error) {
	var item models.ItineraryItem
	err = db.Where("flight_no = ?", flightNo).
		Order("itinerary_item_id DESC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("latest itinerary cost for flight %d: %w", flightNo, err)
	}
	return item.Cost, true, nil
}

// FlightPrice is the display price of a flight, zero when never itemized.
func (s *PricingService) FlightPrice(ctx context.Context, flightNo uint) (decimal.Decimal, error) {
	cost, _, err := LatestItineraryCost(s.DB.WithContext(ctx), flightNo)
	return cost, err
}

// PriceOf backs the price lookup endpoint: NotFound when the flight has no
// itinerary history.
func (s *PricingService) PriceOf(ctx context.Context, flightNo uint) (decimal.Decimal, error) {
	cost, ok, err := LatestItineraryCost(s.DB.WithContext(ctx), flightNo)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, notFound("flight price", flightNo)
	}
	return cost, nil
}

// getOrCreateItem looks an add-on up by description, creating it with def
// when absent. The rate of an existing row is never touched.
func getOrCreateItem(tx *gorm.DB, description string, def decimal.Decimal) (models.AdditionalItem, error) {
	var item models.AdditionalItem
	err := tx.Where("description = ?", description).First(&item).Error
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AdditionalItem{}, fmt.Errorf("find item %q: %w", description, err)
	}

	item = models.AdditionalItem{Description: description, CostPerUnit: def}
	err = createOrFind(tx, "create_item", &item, func() error {
		item = models.AdditionalItem{}
		return tx.Where("description = ?", description).First(&item).Error
	})
	if err != nil {
		return models.AdditionalItem{}, fmt.Errorf("create item %q: %w", description, err)
	}
	return item, nil
}

func loadRates(tx *gorm.DB) (Rates, error) {
	baggage, err := getOrCreateItem(tx, BaggageItemDescription, DefaultBaggageRate)
	if err != nil {
		return Rates{}, err
	}
	insurance, err := getOrCreateItem(tx, InsuranceItemDescription, DefaultInsuranceRate)
	if err != nil {
		return Rates{}, err
	}
	return Rates{Baggage: baggage, Insurance: insurance}, nil
}

// Rates returns the live add-on rates, creating the items with their
// defaults on first use.
func (s *PricingService) Rates(ctx context.Context) (Rates, error) {
	var r Rates
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		r, err = loadRates(tx)
		return err
	})
	return r, err
}

// EnsureRates makes sure both add-on items exist. Called once at startup.
func (s *PricingService) EnsureRates(ctx context.Context) error {
	_, err := s.Rates(ctx)
	return err
}

// ComputeQuote prices flightsCost plus the selected add-ons.
func ComputeQuote(flightsCost decimal.Decimal, baggageCount int, hasInsurance bool, rates Rates) Quote {
	q := Quote{
		FlightsCost:   flightsCost,
		BaggageCount:  baggageCount,
		BaggageRate:   rates.Baggage.CostPerUnit,
		BaggageCost:   decimal.Zero,
		HasInsurance:  hasInsurance,
		InsuranceRate: rates.Insurance.CostPerUnit,
		InsuranceCost: decimal.Zero,
	}
	if baggageCount > 0 {
		q.BaggageCost = rates.Baggage.CostPerUnit.Mul(decimal.NewFromInt(int64(baggageCount)))
	}
	if hasInsurance {
		q.InsuranceCost = rates.Insurance.CostPerUnit
	}
	q.AdditionalCost = q.BaggageCost.Add(q.InsuranceCost)
	q.TotalCost = q.FlightsCost.Add(q.AdditionalCost)
	return q
}

// Quote prices a session for display. Omitted add-on choices default to none,
// as they do on commit, so the same inputs quote what commit charges. The
// choices recorded by load-for-edit stay in the session's editing block for
// the caller to send back.
func (s *PricingService) Quote(ctx context.Context, bs *session.BookingSession, baggageCount *int, hasInsurance *bool) (Quote, error) {
	bags, ins := 0, false
	if baggageCount != nil {
		bags = *baggageCount
	}
	if hasInsurance != nil {
		ins = *hasInsurance
	}
	if bags < 0 {
		bags = 0
	}

	rates, err := s.Rates(ctx)
	if err != nil {
		return Quote{}, err
	}
	return ComputeQuote(bs.FlightsCost(), bags, ins, rates), nil
}
