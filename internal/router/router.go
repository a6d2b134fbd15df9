package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/handler"
)

// Handlers bundles the per-resource handlers the router wires up.
type Handlers struct {
	Users       *handler.UserHandler
	Events      *handler.EventHandler
	Bookings    *handler.BookingHandler
	Attendance  *handler.AttendanceHandler
	Auditoriums *handler.AuditoriumHandler
}

// Register maps every route of the API onto the Echo instance.  All
// business endpoints live under /api; the root and /healthz are liveness
// probes.  There is no authentication middleware anywhere on the tree:
// login only returns a profile and clients enforce roles themselves, so
// every route is reachable directly.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/login", h.Users.Login)
	users.GET("", h.Users.List)
	users.GET("/", h.Users.List)
	users.POST("/add", h.Users.Add)
	users.POST("/role", h.Users.SetRole)
	users.POST("/suspend", h.Users.Suspend)
	users.POST("/unsuspend", h.Users.Unsuspend)
	users.POST("/delete", h.Users.Delete)
	users.GET("/:usn", h.Users.Get)

	events := api.Group("/events")
	events.GET("", h.Events.List)
	events.GET("/", h.Events.List)
	events.POST("/add", h.Events.Add)
	events.PUT("/update/:id", h.Events.Update)
	events.DELETE("/delete/:id", h.Events.Delete)
	events.PUT("/visibility/:id", h.Events.SetVisibility)
	events.POST("/check_conflict", h.Events.CheckConflict)
	// The directories hang off /events because the admin UI manages them
	// from the event form.
	events.GET("/speakers", h.Events.Speakers)
	events.POST("/speakers/add", h.Events.AddSpeaker)
	events.DELETE("/speakers/delete/:id", h.Events.DeleteSpeaker)
	events.GET("/coordinators", h.Events.Coordinators)
	events.POST("/coordinators/add", h.Events.AddCoordinator)
	events.DELETE("/coordinators/delete/:id", h.Events.DeleteCoordinator)
	events.GET("/auditoriums", h.Events.VenueNames)

	bookings := api.Group("/bookings")
	bookings.GET("", h.Bookings.List)
	bookings.GET("/", h.Bookings.List)
	bookings.POST("/add", h.Bookings.Add)
	bookings.DELETE("/delete/:id", h.Bookings.Delete)
	bookings.PUT("/update_status/:id", h.Bookings.UpdateStatus)
	bookings.POST("/scan", h.Bookings.Scan)
	bookings.GET("/event/:eventId", h.Bookings.ListForEvent)
	bookings.GET("/user/:usn", h.Bookings.ListForUser)

	attendance := api.Group("/attendance")
	attendance.GET("/list", h.Attendance.List)
	attendance.POST("/mark", h.Attendance.Mark)

	auditoriums := api.Group("/auditoriums")
	auditoriums.GET("", h.Auditoriums.List)
	auditoriums.GET("/", h.Auditoriums.List)
	auditoriums.POST("/add", h.Auditoriums.Add)
	auditoriums.PUT("/update/:name", h.Auditoriums.Update)
}
