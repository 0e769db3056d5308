package router

import (
	"log/slog"
	"net/http"

	"tareas/cache"
	"tareas/config"
	"tareas/controllers"
	"tareas/db"
	"tareas/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Deps agrupa lo que necesitan los handlers para armarse.
type Deps struct {
	DB       *gorm.DB
	Tokens   *controllers.TokenManager
	Denylist *cache.Denylist
	Cfg      config.Configuration
	Log      *slog.Logger
}

// Initialize registra todas las rutas de la API bajo /api/v1.
func Initialize(r *gin.Engine, deps Deps) {
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		msg := "Error interno del servidor"
		if deps.Cfg.Debug {
			if e, ok := err.(error); ok {
				msg = e.Error()
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": msg, "details": nil})
	}))

	if deps.Log != nil {
		r.Use(RequestLogger(deps.Log))
	}
	r.Use(middleware.CORS(deps.Cfg.CorsOrigins))
	r.Use(db.SetDBtoContext(deps.DB))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login(deps.Tokens))
		auth.POST("/refresh", controllers.Refresh(deps.Tokens, deps.Denylist))
		auth.POST("/logout", controllers.Logout(deps.Tokens, deps.Denylist))
		auth.GET("/me", controllers.AuthRequired(deps.Tokens), controllers.Me)
	}

	authed := api.Group("")
	authed.Use(controllers.AuthRequired(deps.Tokens))

	users := authed.Group("/users")
	{
		users.GET("", Adminizer(), controllers.GetUsers)
		users.PUT("/me", controllers.UpdateMe)
		users.GET("/:id", controllers.GetUserByID)
		users.DELETE("/:id", Adminizer(), controllers.DeleteUser)
	}

	contacts := authed.Group("/contacts")
	{
		contacts.POST("", controllers.CreateContact)
		contacts.GET("", controllers.GetContacts)
		contacts.GET("/search", controllers.SearchContacts)
		contacts.GET("/stats/count", controllers.GetContactStats)
		contacts.GET("/:id", controllers.GetContactByID)
		contacts.PUT("/:id", controllers.UpdateContact)
		contacts.DELETE("/:id", controllers.DeleteContact)
		contacts.DELETE("/:id/permanent", controllers.DeleteContactPermanent)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", controllers.CreateTask)
		tasks.GET("", controllers.GetTasks)
		tasks.GET("/search", controllers.SearchTasks)
		tasks.GET("/:id", controllers.GetTaskByID)
		tasks.PUT("/:id", controllers.UpdateTask)
		tasks.PUT("/:id/status", controllers.UpdateTaskStatus)
		tasks.POST("/:id/contacts", controllers.AddTaskContacts)
		tasks.DELETE("/:id/contacts", controllers.RemoveTaskContacts)
		tasks.GET("/:id/history", controllers.GetTaskHistory)
		tasks.DELETE("/:id", controllers.DeleteTask)
	}

	ai := authed.Group("/ai")
	{
		ai.POST("/interpret", controllers.InterpretRequest)
		ai.POST("/confirm/:id", controllers.ConfirmRequest)
		ai.GET("/requests", controllers.GetAIRequests)
	}

	dashboard := authed.Group("/dashboard")
	{
		dashboard.GET("/stats", controllers.GetDashboardStats)
		dashboard.GET("/tasks-by-status", controllers.GetTasksByStatus)
		dashboard.GET("/tasks-by-month", controllers.GetTasksByMonth)
		dashboard.GET("/recent-tasks", controllers.GetRecentTasks)
		dashboard.GET("/today-tasks", controllers.GetTodayTasks)
	}
}
