package store

// Table names used across the application.  They mirror the tabs of the
// original spreadsheet and must match whatever the backing store already
// holds, so they are constants rather than configuration.
const (
	TableUsers        = "Users"
	TableEvents       = "Events"
	TableBookings     = "Bookings"
	TableAttendance   = "Attendance"
	TableSpeakers     = "Speakers"
	TableCoordinators = "Coordinators"
	TableAuditoriums  = "Auditoriums"
)
