package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/middleware"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/types"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from the rest of the application.
type Deps struct {
	DB             *gorm.DB
	Issuer         *auth.Issuer
	Auth           *services.AuthService
	Users          *services.UserService
	Projects       *services.ProjectService
	Tasks          *services.TaskService
	Log            *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) *gin.Engine {
	handlers.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), middleware.Timeout(d.RequestTimeout))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(d.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	health := handlers.NewHealthHandler(d.DB)
	authH := handlers.NewAuthHandler(d.Auth, d.Log)
	users := handlers.NewUserHandler(d.Users, d.Log)
	projects := handlers.NewProjectHandler(d.Projects, d.Tasks, d.Log)
	tasks := handlers.NewTaskHandler(d.Tasks, d.Log)

	requireUser := middleware.AuthMiddleware(d.Issuer, d.Users)

	api := r.Group("/api")
	{
		api.GET("/health", health.Check)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authH.Register)
			authGroup.POST("/login", authH.Login)
			authGroup.POST("/google", authH.Google)
			authGroup.GET("/me", requireUser, authH.Me)
		}

		api.GET("/users", requireUser, users.Search)

		projectGroup := api.Group("/projects", requireUser)
		{
			projectGroup.GET("", projects.ListOwned)
			projectGroup.POST("", projects.Create)
			projectGroup.GET("/assigned", projects.ListAssigned)
			projectGroup.GET("/:id", projects.Get)
			projectGroup.PUT("/:id", projects.Update)
			projectGroup.DELETE("/:id", projects.Delete)

			// Membership
			projectGroup.POST("/:id/assign", projects.AssignUser)
			projectGroup.DELETE("/:id/assign/:userId", projects.RemoveUser)
			projectGroup.GET("/:id/users", projects.MemberIDs)
			projectGroup.GET("/:id/members", projects.Members)

			projectGroup.GET("/:id/tasks", projects.ListTasks)
			projectGroup.POST("/:id/tasks", projects.CreateTask)
		}

		taskGroup := api.Group("/tasks", requireUser)
		{
			taskGroup.GET("", tasks.List)
			taskGroup.POST("", tasks.Create)
			taskGroup.GET("/owned", tasks.ListOwned)
			taskGroup.GET("/assigned", tasks.ListAssigned)
			taskGroup.GET("/stats", tasks.Stats)
			taskGroup.GET("/:id", tasks.Get)
			taskGroup.PUT("/:id", tasks.Update)
			taskGroup.DELETE("/:id", tasks.Delete)
			taskGroup.POST("/:id/assign", tasks.Assign)
			taskGroup.POST("/:id/status", tasks.ChangeStatus)
		}
	}

	return r
}
