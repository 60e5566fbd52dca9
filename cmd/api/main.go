package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"moneylog/internal/config"
	"moneylog/internal/database"
	_ "moneylog/internal/docs" // Import swagger docs
	"moneylog/internal/handlers"
	"moneylog/internal/logger"
	"moneylog/internal/mail"
	"moneylog/internal/middleware"
	"moneylog/internal/models"
	"moneylog/internal/services"
	"moneylog/internal/storage"
	"moneylog/internal/validator"
)

// @title           Money Log API
// @version         1.0
// @description     Money Log is an expense tracking application for personal budgets and shared group spending.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	photoDir := filepath.Join(appConfig.UploadDir, "personal-photos")
	photoStore, err := storage.NewDiskStore(photoDir)
	if err != nil {
		return fmt.Errorf("failed to create photo store: %w", err)
	}

	db := dbManager.DB()
	mailer := mail.NewSMTPSender(appConfig)
	userService := services.NewUserService(db)
	otpService := services.NewOTPService(db, mailer)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db)
	groupService := services.NewGroupService(db, mailer, appConfig.FrontendURL)
	groupExpenseService := services.NewGroupExpenseService(db)
	groupBudgetService := services.NewGroupBudgetService(db)
	photoService := services.NewPhotoService(db, photoStore)

	userHandler := handlers.NewUserHandler(userService, otpService, appConfig)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	groupHandler := handlers.NewGroupHandler(groupService)
	groupExpenseHandler := handlers.NewGroupExpenseHandler(groupExpenseService)
	groupBudgetHandler := handlers.NewGroupBudgetHandler(groupBudgetService)
	photoHandler := handlers.NewPhotoHandler(photoService)

	secret := []byte(appConfig.JWTSecret)
	auth := middleware.Auth(secret, userService)
	optionalAuth := middleware.OptionalAuth(secret, userService)
	memberOnly := middleware.RequireGroupRole(db, models.RoleMember)
	adminOnly := middleware.RequireGroupRole(db, models.RoleAdmin)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded photos are served from a public static directory.
	router.Static("/uploads/personal-photos", photoDir)

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Account lifecycle and authentication
	users := api.Group("/users")
	users.POST("", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/check-credentials", userHandler.CheckCredentials)
	users.POST("/check-email", userHandler.CheckEmail)
	users.POST("/send-registration-otp", userHandler.SendRegistrationOTP)
	users.POST("/verify-registration-otp", userHandler.VerifyRegistrationOTP)
	users.POST("/resend-registration-otp", userHandler.ResendRegistrationOTP)
	users.POST("/forgot-password", userHandler.ForgotPassword)
	users.POST("/verify-otp", userHandler.VerifyResetOTP)
	users.POST("/reset-password-otp", userHandler.ResetPassword)
	users.POST("/logout", auth, userHandler.Logout)
	users.GET("", auth, userHandler.ListUsers)
	users.GET("/:id", auth, userHandler.GetUser)
	users.PATCH("", auth, userHandler.UpdateUser)
	users.DELETE("", auth, userHandler.DeleteAccount)

	// Personal budgets
	budgets := api.Group("/personal-budgets", auth)
	budgets.POST("", budgetHandler.AddBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.GET("/month/:month_year", budgetHandler.GetBudgetByMonth)

	// Personal expenses
	expenses := api.Group("/expenses", auth)
	expenses.POST("", expenseHandler.AddExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/patterns", expenseHandler.GetPatterns)
	expenses.PUT("/:id", expenseHandler.EditExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Photos
	photos := api.Group("/photos", auth)
	photos.POST("", photoHandler.UploadPhoto)
	photos.GET("", photoHandler.ListPhotos)
	photos.PUT("/:photoId", photoHandler.UpdatePhoto)
	photos.DELETE("/:photoId", photoHandler.DeletePhoto)

	// Group lifecycle. Invite acceptance works for anonymous callers too.
	groups := api.Group("/groups")
	groups.GET("/accept-invite", optionalAuth, groupHandler.AcceptInvite)
	groups.GET("/pending-invites", groupHandler.GetPendingInvites)
	groups.POST("", auth, groupHandler.CreateGroup)
	groups.GET("", auth, groupHandler.GetUserGroups)
	groups.POST("/join", auth, groupHandler.JoinGroup)

	// Routes below require an active membership in the target group.
	member := groups.Group("/:groupId", auth, memberOnly)
	member.GET("", groupHandler.GetGroupInfo)
	member.GET("/members", groupHandler.GetMembers)
	member.POST("/invite", groupHandler.InviteMember)
	member.POST("/expenses", groupExpenseHandler.AddExpense)
	member.GET("/expenses", groupExpenseHandler.GetExpenses)
	member.GET("/expenses/member/:memberId", groupExpenseHandler.GetExpensesByMember)
	member.PUT("/expenses/:expenseId", groupExpenseHandler.EditExpense)
	member.DELETE("/expenses/:expenseId", groupExpenseHandler.DeleteExpense)
	member.POST("/budget", groupBudgetHandler.AddBudget)
	member.PUT("/budget", groupBudgetHandler.UpdateBudget)
	member.GET("/budget", groupBudgetHandler.GetBudget)

	// Admin-only group management.
	admin := groups.Group("/:groupId", auth, adminOnly)
	admin.PUT("", groupHandler.UpdateGroupName)
	admin.DELETE("", groupHandler.DeleteGroup)
	admin.GET("/requests", groupHandler.GetPendingRequests)
	admin.POST("/requests/:requestId/approve", groupHandler.ApproveRequest)
	admin.POST("/requests/:requestId/reject", groupHandler.RejectRequest)
	admin.DELETE("/members/:memberId", groupHandler.RemoveMember)

	log.Infof("Starting Money Log backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
