package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/config"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/authz"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Config      *config.Config
	Log         *zap.Logger
	Metrics     *metrics.Collector
	JWT         *auth.JWTManager
	Authorizer  *authz.Authorizer
	Limiter     *middleware.IPRateLimiter
	AuthLimiter *middleware.IPRateLimiter

	Health        *HealthHandler
	Auth          *AuthHandler
	Patients      *PatientHandler
	Appointments  *AppointmentHandler
	Records       *MedicalRecordHandler
	Departments   *DepartmentHandler
	Staff         *StaffHandler
	Shifts        *ShiftHandler
	Tasks         *TaskHandler
	Notifications *NotificationHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Tracing(d.Config.Tracing.ServiceName),
		middleware.Metrics(d.Metrics),
		middleware.Logger(d.Log),
		middleware.SecurityHeaders(),
		middleware.CORS(d.Config.CORS),
		middleware.BodyLimit(d.Config.Server.MaxBodyBytes),
	)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})

	r.GET("/healthz", d.Health.Live)
	r.GET("/readyz", d.Health.Ready)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(d.Limiter.Middleware())

	public := api.Group("/auth")
	public.Use(d.AuthLimiter.Middleware())
	{
		public.POST("/login", d.Auth.Login)
		public.POST("/refresh", d.Auth.Refresh)
		public.POST("/register", d.Auth.Register)
	}

	secured := api.Group("")
	secured.Use(middleware.Authenticate(d.JWT))

	perm := func(res authz.Resource, act authz.Action) gin.HandlerFunc {
		return middleware.RequirePermission(d.Authorizer, d.Log, res, act)
	}

	me := secured.Group("/auth")
	{
		me.GET("/me", d.Auth.Me)
		me.POST("/change-password", d.Auth.ChangePassword)
	}

	patients := secured.Group("/patients")
	{
		patients.GET("", perm(authz.ResourcePatients, authz.ActionRead), d.Patients.List)
		patients.POST("", perm(authz.ResourcePatients, authz.ActionWrite), d.Patients.Create)
		patients.GET("/lookup", perm(authz.ResourcePatients, authz.ActionRead), d.Patients.Lookup)
		patients.GET("/:id", perm(authz.ResourcePatients, authz.ActionRead), d.Patients.Get)
		patients.PATCH("/:id", perm(authz.ResourcePatients, authz.ActionWrite), d.Patients.Update)
		patients.DELETE("/:id", perm(authz.ResourcePatients, authz.ActionDelete), d.Patients.Deactivate)
	}

	appts := secured.Group("/appointments")
	{
		read := perm(authz.ResourceAppointments, authz.ActionRead)
		write := perm(authz.ResourceAppointments, authz.ActionWrite)
		appts.GET("", read, d.Appointments.List)
		appts.POST("", write, d.Appointments.Create)
		appts.GET("/upcoming", read, d.Appointments.Upcoming)
		appts.GET("/:id", read, d.Appointments.Get)
		appts.PATCH("/:id", write, d.Appointments.Update)
		appts.POST("/:id/confirm", write, d.Appointments.Confirm())
		appts.POST("/:id/start", write, d.Appointments.Start())
		appts.POST("/:id/complete", write, d.Appointments.Complete)
		appts.POST("/:id/no-show", write, d.Appointments.NoShow())
		appts.POST("/:id/cancel", write, d.Appointments.Cancel)
	}

	records := secured.Group("/medical-records")
	{
		records.GET("", perm(authz.ResourceMedicalRecords, authz.ActionRead), d.Records.List)
		records.POST("", perm(authz.ResourceMedicalRecords, authz.ActionWrite), d.Records.Create)
		records.GET("/by-appointment/:appointment_id", perm(authz.ResourceMedicalRecords, authz.ActionRead), d.Records.ByAppointment)
		records.GET("/:id", perm(authz.ResourceMedicalRecords, authz.ActionRead), d.Records.Get)
		records.POST("/:id/addenda", perm(authz.ResourceMedicalRecords, authz.ActionWrite), d.Records.AddAddendum)
	}

	depts := secured.Group("/departments")
	{
		depts.GET("", perm(authz.ResourceDepartments, authz.ActionRead), d.Departments.List)
		depts.POST("", perm(authz.ResourceDepartments, authz.ActionWrite), d.Departments.Create)
		depts.GET("/:id", perm(authz.ResourceDepartments, authz.ActionRead), d.Departments.Get)
		depts.PATCH("/:id", perm(authz.ResourceDepartments, authz.ActionWrite), d.Departments.Update)
		depts.DELETE("/:id", perm(authz.ResourceDepartments, authz.ActionDelete), d.Departments.Delete)
		depts.GET("/:id/staff", perm(authz.ResourceStaff, authz.ActionRead), d.Departments.Staff)
	}

	staffGroup := secured.Group("/staff")
	{
		staffGroup.GET("", perm(authz.ResourceStaff, authz.ActionRead), d.Staff.List)
		staffGroup.POST("", perm(authz.ResourceStaff, authz.ActionWrite), d.Staff.Create)
		staffGroup.GET("/:id", perm(authz.ResourceStaff, authz.ActionRead), d.Staff.Get)
		staffGroup.PATCH("/:id", perm(authz.ResourceStaff, authz.ActionWrite), d.Staff.Update)
		staffGroup.DELETE("/:id", perm(authz.ResourceStaff, authz.ActionDelete), d.Staff.Deactivate)
	}

	shifts := secured.Group("/shifts")
	{
		read := perm(authz.ResourceShifts, authz.ActionRead)
		assign := perm(authz.ResourceShifts, authz.ActionAssign)
		shifts.GET("", read, d.Shifts.List)
		shifts.GET("/mine", read, d.Shifts.Mine)
		shifts.POST("", assign, d.Shifts.Assign)
		shifts.POST("/auto-assign", assign, d.Shifts.AutoAssign)
		shifts.GET("/:id", read, d.Shifts.Get)
		shifts.PATCH("/:id", assign, d.Shifts.Update)
		shifts.POST("/:id/cancel", assign, d.Shifts.Cancel)
		shifts.POST("/:id/complete", assign, d.Shifts.Complete)
		shifts.DELETE("/:id", perm(authz.ResourceShifts, authz.ActionDelete), d.Shifts.Delete)
	}

	tasks := secured.Group("/tasks")
	{
		read := perm(authz.ResourceTasks, authz.ActionRead)
		write := perm(authz.ResourceTasks, authz.ActionWrite)
		tasks.GET("", read, d.Tasks.List)
		tasks.GET("/mine", read, d.Tasks.Mine)
		tasks.POST("", write, d.Tasks.Create)
		tasks.GET("/:id", read, d.Tasks.Get)
		tasks.PATCH("/:id", write, d.Tasks.Update)
		tasks.PATCH("/:id/status", write, d.Tasks.UpdateStatus)
		tasks.DELETE("/:id", perm(authz.ResourceTasks, authz.ActionDelete), d.Tasks.Delete)
	}

	notes := secured.Group("/notifications")
	{
		read := perm(authz.ResourceNotifications, authz.ActionRead)
		write := perm(authz.ResourceNotifications, authz.ActionWrite)
		notes.GET("", read, d.Notifications.List)
		notes.GET("/unread-count", read, d.Notifications.UnreadCount)
		notes.POST("/read-all", write, d.Notifications.MarkAllRead)
		notes.POST("/send", perm(authz.ResourceNotifications, authz.ActionSend), d.Notifications.Send)
		notes.POST("/:id/read", write, d.Notifications.MarkRead)
		notes.DELETE("/:id", write, d.Notifications.Delete)
	}

	return r
}
