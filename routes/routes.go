package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/controllers"
	"airline-backoffice/middleware"
)

// Controllers groups the handlers the router needs.
type Controllers struct {
	Flights        *controllers.FlightController
	Routes         *controllers.RouteController
	Passengers     *controllers.PassengerController
	Crew           *controllers.CrewController
	BookingSession *controllers.BookingSessionController
	Bookings       *controllers.BookingController
}

type Options struct {
	CORSOrigins []string
	SessionTTL  time.Duration
	Log         logrus.FieldLogger
}

// SetupRouter builds the gin engine with the full route table.
func SetupRouter(ctl Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Log != nil {
		r.Use(middleware.Logger(opts.Log))
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		flights := api.Group("/flights")
		{
			flights.GET("/search", ctl.Flights.Search)
			flights.POST("/price", ctl.Flights.Price)
			flights.POST("/arrival-time", ctl.Flights.ArrivalTime)
		}

		api.GET("/schedules", ctl.Flights.ListSchedules)
		api.POST("/schedules", ctl.Flights.CreateSchedule)

		api.GET("/routes", ctl.Routes.ListRoutes)
		api.POST("/routes", ctl.Routes.CreateRoute)
		api.GET("/cities", ctl.Routes.ListCities)
		api.POST("/cities", ctl.Routes.CreateCity)

		passengers := api.Group("/passengers")
		{
			passengers.GET("", ctl.Passengers.List)
			passengers.POST("", ctl.Passengers.Create)
			passengers.DELETE("/:id", ctl.Passengers.Delete)
		}

		crew := api.Group("/crew")
		{
			crew.GET("", ctl.Crew.ListCrew)
			crew.GET("/assignments", ctl.Crew.ListAssignments)
			crew.POST("/assignments", ctl.Crew.Assign)
		}

		// everything below is tied to the caller's booking session
		withSession := api.Group("", middleware.SessionID(opts.SessionTTL))

		bs := withSession.Group("/booking-session")
		{
			bs.GET("", ctl.BookingSession.Get)
			bs.POST("/legs", ctl.BookingSession.AddLeg)
			bs.DELETE("", ctl.BookingSession.Discard)
			bs.POST("/commit", ctl.BookingSession.Commit)
		}

		bookings := withSession.Group("/bookings")
		{
			bookings.GET("", ctl.Bookings.List)
			bookings.GET("/:id", ctl.Bookings.Get)
			bookings.POST("/:id/edit", ctl.Bookings.LoadForEdit)
			bookings.DELETE("/:id", ctl.Bookings.Delete)
		}
	}

	return r
}
