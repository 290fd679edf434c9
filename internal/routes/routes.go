package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/blob"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
	ucBooking "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/booking"
	ucPharmacy "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/pharmacy"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, blobs blob.Store, cfg *config.Config) {

	r.Use(middleware.CORSMiddleware())

	// ------------------------------
	// Infra (singletons)
	// ------------------------------
	userRepo := infraRepo.NewUserGormRepository(db)
	inventoryRepo := infraRepo.NewInventoryGormRepository(db)
	recordRepo := infraRepo.NewMedicalRecordGormRepository(db)

	scheduleStore := store.NewScheduleStore(blobs)
	appointmentStore := store.NewAppointmentStore(blobs)
	doctorLocks := ucBooking.NewDoctorLocks()

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ------------------------------
	// Use cases
	// ------------------------------
	manageScheduleUC := ucBooking.NewManageSchedule(cfg, scheduleStore, doctorLocks, auditDispatcher)
	availabilityUC := ucBooking.NewGetAvailability(scheduleStore, userRepo)
	bookUC := ucBooking.NewBookAppointment(scheduleStore, appointmentStore, doctorLocks, auditDispatcher)
	confirmUC := ucBooking.NewConfirmAppointment(scheduleStore, appointmentStore, doctorLocks, auditDispatcher)
	declineUC := ucBooking.NewDeclineAppointment(appointmentStore, auditDispatcher)
	rescheduleUC := ucBooking.NewRescheduleAppointment(scheduleStore, appointmentStore, doctorLocks, auditDispatcher)
	cancelUC := ucBooking.NewCancelAppointment(scheduleStore, appointmentStore, doctorLocks, auditDispatcher)
	recordOutcomeUC := ucBooking.NewRecordOutcome(appointmentStore, auditDispatcher)

	dispenseUC := ucPharmacy.NewDispensePrescription(appointmentStore, inventoryRepo, auditDispatcher)
	replenishUC := ucPharmacy.NewRequestReplenishment(inventoryRepo, auditDispatcher)
	approveUC := ucPharmacy.NewApproveReplenishment(inventoryRepo, auditDispatcher)

	// ------------------------------
	// Handlers
	// ------------------------------
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	adminHandler := handlers.NewAdminHandler(userRepo, inventoryRepo, approveUC, auditDispatcher)
	doctorHandler := handlers.NewDoctorHandler(
		manageScheduleUC,
		confirmUC,
		declineUC,
		recordOutcomeUC,
		appointmentStore,
		recordRepo,
	)
	patientHandler := handlers.NewPatientHandler(
		availabilityUC,
		bookUC,
		rescheduleUC,
		cancelUC,
		appointmentStore,
		recordRepo,
	)
	pharmacistHandler := handlers.NewPharmacistHandler(
		dispenseUC,
		replenishUC,
		appointmentStore,
		inventoryRepo,
	)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	api := r.Group("/api")
	{
		// ------------------------------
		// Auth
		// ------------------------------
		api.POST("/auth/register", authHandler.RegisterPatient)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// password change is the only route reachable before a
			// first-login default password is replaced
			secured.POST("/auth/change-password", authHandler.ChangePassword)

			gated := secured.Group("/")
			gated.Use(middleware.RequirePasswordChanged())
			{
				gated.GET("/me", meHandler.GetMe)
				gated.PATCH("/me", meHandler.UpdateMe)

				// ------------------------------
				// Admin
				// ------------------------------
				admin := gated.Group("/admin")
				admin.Use(middleware.RequireRole(models.RoleAdmin))
				{
					admin.POST("/staff", adminHandler.CreateStaff)
					admin.GET("/staff", adminHandler.ListStaff)
					admin.PATCH("/staff/:id", adminHandler.UpdateStaff)
					admin.DELETE("/staff/:id", adminHandler.RemoveStaff)

					admin.POST("/inventory", adminHandler.CreateInventoryItem)
					admin.GET("/inventory", adminHandler.ListInventory)
					admin.PATCH("/inventory/:name", adminHandler.UpdateInventoryItem)
					admin.DELETE("/inventory/:name", adminHandler.RemoveInventoryItem)
					admin.POST("/inventory/:name/approve-replenishment", adminHandler.ApproveReplenishment)

					admin.GET("/audit-logs", auditLogsHandler.List)
				}

				// ------------------------------
				// Doctor
				// ------------------------------
				doctor := gated.Group("/doctor")
				doctor.Use(middleware.RequireRole(models.RoleDoctor))
				{
					doctor.GET("/schedule", doctorHandler.ViewSchedule)
					doctor.POST("/schedule", doctorHandler.InitializeSchedule)
					doctor.POST("/schedule/extend", doctorHandler.ExtendSchedule)
					doctor.POST("/schedule/block", doctorHandler.BlockSlot)
					doctor.POST("/schedule/unblock", doctorHandler.UnblockSlot)

					doctor.GET("/appointments", doctorHandler.ListAppointments)
					doctor.GET("/appointments/pending", doctorHandler.PendingRequests)
					doctor.PATCH("/appointments/:id/confirm", doctorHandler.Confirm)
					doctor.PATCH("/appointments/:id/decline", doctorHandler.Decline)
					doctor.POST("/appointments/:id/outcome", doctorHandler.RecordOutcome)

					doctor.GET("/patients/:patientId/record", doctorHandler.ViewMedicalRecord)
					doctor.PUT("/patients/:patientId/record", doctorHandler.UpdateMedicalRecord)
				}

				// ------------------------------
				// Patient
				// ------------------------------
				patient := gated.Group("/patient")
				patient.Use(middleware.RequireRole(models.RolePatient))
				{
					patient.GET("/availability", patientHandler.ListAvailability)
					patient.GET("/availability/:doctorId", patientHandler.DoctorAvailability)

					patient.POST("/appointments", patientHandler.Book)
					patient.GET("/appointments", patientHandler.MyAppointments)
					patient.GET("/appointments/outcomes", patientHandler.PastOutcomes)
					patient.GET("/record", patientHandler.MyMedicalRecord)
					patient.PATCH("/appointments/:id/reschedule", patientHandler.Reschedule)
					patient.PATCH("/appointments/:id/cancel", patientHandler.Cancel)
				}

				// ------------------------------
				// Pharmacist
				// ------------------------------
				pharmacist := gated.Group("/pharmacist")
				pharmacist.Use(middleware.RequireRole(models.RolePharmacist))
				{
					pharmacist.GET("/outcomes", pharmacistHandler.ListOutcomes)
					pharmacist.PATCH("/outcomes/:id/dispense", pharmacistHandler.Dispense)
					pharmacist.GET("/inventory", pharmacistHandler.ListInventory)
					pharmacist.POST("/inventory/:name/replenish", pharmacistHandler.RequestReplenishment)
				}
			}
		}
	}
}
