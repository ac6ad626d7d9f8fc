package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/config"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/database"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/handler"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/middleware"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/queue"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/router"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/scheduler"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories.
	books := repository.NewBookRepo(db)
	students := repository.NewStudentRepo(db)
	librarians := repository.NewLibrarianRepo(db)
	borrows := repository.NewBorrowRepo(db)
	entries := repository.NewEntryRepo(db)
	hoursRepo := repository.NewHoursRepo(db)
	announcements := repository.NewAnnouncementRepo(db)
	cctv := repository.NewCCTVRepo(db)
	fingerprints := repository.NewFingerprintRepo(db)
	tokens := repository.NewTokenRepo(db)
	departments := repository.NewDepartmentRepo(db)
	courses := repository.NewCourseRepo(db)
	majorMinors := repository.NewMajorMinorRepo(db)

	// Services.
	hoursSvc := service.NewHoursService(hoursRepo)
	borrowSvc := service.NewBorrowService(db, books, students, borrows)
	presenceSvc := service.NewPresenceService(db, entries, students, hoursSvc)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, students, librarians, tokens)
	bookH := handler.NewBookHandler(books, borrows)
	studentH := handler.NewStudentHandler(cfg, students, borrows, entries)
	borrowH := handler.NewBorrowHandler(borrowSvc, books, students, borrows)
	entryH := handler.NewEntryHandler(presenceSvc, entries)
	hoursH := handler.NewHoursHandler(hoursSvc)
	announcementH := handler.NewAnnouncementHandler(announcements)
	cctvH := handler.NewCCTVHandler(cctv)
	fingerprintH := handler.NewFingerprintHandler(fingerprints, students)
	reportH := handler.NewReportHandler(borrows, entries, presenceSvc)
	publicH := handler.NewPublicHandler(books, announcements)
	scanH := handler.NewScanHandler(cfg, presenceSvc, students)
	departmentH := handler.NewDepartmentHandler(departments, courses)
	courseH := handler.NewCourseHandler(courses, departments)
	majorMinorH := handler.NewMajorMinorHandler(majorMinors, students, departments)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiterMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, hoursH, cacheMW)
	router.RegisterScan(e, scanH, limiterMW)
	router.RegisterStudent(e, borrowH, entryH, reportH, cfg.JWTSecret)
	router.RegisterLibrarian(e, router.LibrarianHandlers{
		Books:         bookH,
		Students:      studentH,
		Borrows:       borrowH,
		Entries:       entryH,
		Hours:         hoursH,
		Announcements: announcementH,
		CCTV:          cctvH,
		Fingerprints:  fingerprintH,
		Reports:       reportH,
		Departments:   departmentH,
		Courses:       courseH,
		MajorMinors:   majorMinorH,
	}, cfg.JWTSecret)

	// Background workers: the auto-exit sweep plus the security log
	// consumer draining the broker queues.
	sched := scheduler.NewAutoExitScheduler(presenceSvc, fingerprints)
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer sched.Stop()

	go func() {
		if err := queue.StartSecurityConsumer(); err != nil {
			log.Printf("security consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
