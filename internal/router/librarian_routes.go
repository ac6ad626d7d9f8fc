package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/handler"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/middleware"
)

// LibrarianHandlers groups everything mounted under the staff scope so
// the registration call stays readable.
type LibrarianHandlers struct {
	Books         *handler.BookHandler
	Students      *handler.StudentHandler
	Borrows       *handler.BorrowHandler
	Entries       *handler.EntryHandler
	Hours         *handler.HoursHandler
	Announcements *handler.AnnouncementHandler
	CCTV          *handler.CCTVHandler
	Fingerprints  *handler.FingerprintHandler
	Reports       *handler.ReportHandler
	Departments   *handler.DepartmentHandler
	Courses       *handler.CourseHandler
	MajorMinors   *handler.MajorMinorHandler
}

// RegisterLibrarian registers staff endpoints under /v1.  All routes
// require a valid JWT with the LIBRARIAN or ADMIN role.
func RegisterLibrarian(e *echo.Echo, h LibrarianHandlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("LIBRARIAN", "ADMIN"),
	)

	// ---- Catalogue ----
	g.POST("/books", h.Books.Create)
	// Reading the catalogue goes through the public browse routes;
	// registering GET /books/:id here as well would shadow them.
	g.PUT("/books/:id", h.Books.Update)
	g.PATCH("/books/:id", h.Books.Update)
	g.DELETE("/books/:id", h.Books.Delete)

	// ---- Students ----
	g.POST("/students", h.Students.Register)
	g.GET("/students", h.Students.List)
	g.GET("/students/:id", h.Students.Get)
	g.PUT("/students/:id", h.Students.Update)
	g.PATCH("/students/:id/active", h.Students.SetActive)
	g.GET("/students/:id/borrows", h.Students.BorrowHistory)
	g.GET("/students/:id/entries", h.Students.EntryHistory)

	// ---- Borrow ledger ----
	g.POST("/borrows", h.Borrows.Borrow)
	g.GET("/borrows/:id", h.Borrows.Get)
	g.POST("/borrows/:id/return", h.Borrows.Return)
	g.POST("/borrows/:id/fine", h.Borrows.ApplyFine)
	g.POST("/borrows/:id/fine/paid", h.Borrows.MarkFinePaid)
	g.GET("/borrows/overdue", h.Borrows.ListOverdue)
	g.GET("/borrows/fines", h.Borrows.ListWithFines)

	// ---- Presence ledger ----
	g.POST("/entries", h.Entries.ManualEntry)
	g.POST("/entries/:id/close", h.Entries.CloseEntry)
	g.GET("/entries", h.Entries.List)
	g.GET("/entries/open", h.Entries.ListOpen)
	g.GET("/entries/occupancy", h.Entries.Occupancy)

	// ---- Hours ----
	g.POST("/library/hours", h.Hours.Save)
	g.GET("/library/hours", h.Hours.Current)

	// ---- Announcements ----
	g.POST("/announcements", h.Announcements.Create)
	g.GET("/announcements/all", h.Announcements.ListAll)
	g.PUT("/announcements/:id", h.Announcements.Update)
	g.DELETE("/announcements/:id", h.Announcements.Delete)

	// ---- CCTV ----
	g.POST("/cctv/events", h.CCTV.Create)
	g.GET("/cctv/events", h.CCTV.Search)
	g.GET("/cctv/events/review", h.CCTV.ListNeedingReview)
	g.GET("/cctv/events/:id", h.CCTV.Get)
	g.POST("/cctv/events/:id/flag", h.CCTV.Flag)
	g.POST("/cctv/events/:id/review", h.CCTV.Review)
	g.DELETE("/cctv/events/:id", h.CCTV.Delete)

	// ---- Fingerprints ----
	g.POST("/fingerprints", h.Fingerprints.Enroll)
	g.POST("/fingerprints/verify", h.Fingerprints.Verify)
	g.GET("/students/:id/fingerprints", h.Fingerprints.ListForStudent)
	g.POST("/fingerprints/purge", h.Fingerprints.Purge,
		middleware.RequireRole("ADMIN"))

	// ---- Academics ----
	g.POST("/departments", h.Departments.Create)
	g.GET("/departments", h.Departments.List)
	g.GET("/departments/:id", h.Departments.Get)
	g.PUT("/departments/:id", h.Departments.Update)
	g.DELETE("/departments/:id", h.Departments.Delete)
	g.GET("/departments/:id/courses", h.Departments.ListCourses)
	g.POST("/courses", h.Courses.Create)
	g.GET("/courses", h.Courses.List)
	g.GET("/courses/:id", h.Courses.Get)
	g.PUT("/courses/:id", h.Courses.Update)
	g.DELETE("/courses/:id", h.Courses.Delete)
	g.POST("/student-major-minor", h.MajorMinors.Create)
	g.GET("/student-major-minor", h.MajorMinors.List)
	g.GET("/student-major-minor/:id", h.MajorMinors.Get)
	g.PUT("/student-major-minor/:id", h.MajorMinors.Update)
	g.DELETE("/student-major-minor/:id", h.MajorMinors.Delete)

	// ---- Reports ----
	g.GET("/reports/summary", h.Reports.Summary)
}
