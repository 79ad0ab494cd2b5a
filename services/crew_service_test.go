package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline-backoffice/models"
)

func TestAssign_NewCrewMember(t *testing.T) {
	w := newWorld(t)
	svc := NewCrewService(w.db)
	ctx := context.Background()

	a, err := svc.Assign(ctx, AssignCrewInput{
		FirstName: "Anong", LastName: "Srisuk", Role: "Pilot",
		FlightNo: w.outbound.FlightNo, AssignmentDate: "2025-02-28",
	})
	require.NoError(t, err)
	assert.NotZero(t, a.CrewID)
	assert.Equal(t, "2025-02-28", a.AssignmentDate.Format("2006-01-02"))

	again, err := svc.Assign(ctx, AssignCrewInput{CrewID: a.CrewID, FlightNo: w.inbound.FlightNo})
	require.NoError(t, err)
	assert.Equal(t, a.CrewID, again.CrewID)
	assert.Equal(t, int64(1), count(t, w.db, &models.CrewMember{}))

	list, err := svc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pilot", list[0].Crew.Role)

	crew, err := svc.ListCrew(ctx)
	require.NoError(t, err)
	assert.Len(t, crew, 1)
}

func TestAssign_NeedsCrewOrDetails(t *testing.T) {
	w := newWorld(t)
	svc := NewCrewService(w.db)
	ctx := context.Background()

	_, err := svc.Assign(ctx, AssignCrewInput{FirstName: "Anong", Role: "Pilot", FlightNo: w.outbound.FlightNo})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Assign(ctx, AssignCrewInput{CrewID: 55, FlightNo: w.outbound.FlightNo})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Assign(ctx, AssignCrewInput{FirstName: "A", LastName: "B", Role: "Purser", FlightNo: 8080})
	assert.ErrorIs(t, err, ErrNotFound)

	// the new crew member is rolled back with the failed assignment
	assert.Equal(t, int64(0), count(t, w.db, &models.CrewMember{}))
}

func TestListAssignments_ResolvesCrewByReference(t *testing.T) {
	w := newWorld(t)
	svc := NewCrewService(w.db)
	ctx := context.Background()

	pilot := models.CrewMember{FirstName: "Anong", LastName: "Srisuk", Role: "Pilot"}
	purser := models.CrewMember{FirstName: "Kittisak", LastName: "Boonmee", Role: "Purser"}
	require.NoError(t, w.db.Create(&pilot).Error)
	require.NoError(t, w.db.Create(&purser).Error)

	// assignment 1 pairs crew member 2 with flight 2, assignment 2 pairs
	// crew member 1 with flight 1
	_, err := svc.Assign(ctx, AssignCrewInput{CrewID: purser.ID, FlightNo: w.inbound.FlightNo, AssignmentDate: "2025-02-27"})
	require.NoError(t, err)
	_, err = svc.Assign(ctx, AssignCrewInput{CrewID: pilot.ID, FlightNo: w.outbound.FlightNo, AssignmentDate: "2025-02-28"})
	require.NoError(t, err)

	list, err := svc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, pilot.ID, list[0].CrewID)
	assert.Equal(t, "Pilot", list[0].Crew.Role)
	assert.Equal(t, w.outbound.FlightNo, list[0].Flight.FlightNo)
	assert.Equal(t, "Bangkok", list[0].Flight.Route.OriginCity.CityName)
	assert.Equal(t, purser.ID, list[1].CrewID)
	assert.Equal(t, "Purser", list[1].Crew.Role)
	assert.Equal(t, "Kittisak", list[1].Crew.FirstName)
	assert.Equal(t, w.inbound.FlightNo, list[1].Flight.FlightNo)
	assert.Equal(t, "2025-03-05", list[1].Flight.Schedule.Date.Format("2006-01-02"))
}
