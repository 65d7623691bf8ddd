package api

import (
	"net/http"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/engine"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	resolver *engine.Resolver,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	programHandler := NewProgramHandler(resolver)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Program resolution ---
		// GET /api/v1/program?customerId=...&leadId=...
		protected.GET("/program", programHandler.GetResolvedProgram)

		// --- Coach dashboard routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach, domain.RoleAdmin))
		{
			// Budgets (program templates)
			coachGroup.POST("/budgets", coachHandler.CreateBudget)
			coachGroup.GET("/budgets", coachHandler.ListBudgets)
			coachGroup.GET("/budgets/:budgetId", coachHandler.GetBudget)
			coachGroup.PUT("/budgets/:budgetId", coachHandler.UpdateBudget)

			// Budget attachments
			coachGroup.POST("/budgets/:budgetId/attachment/upload-url", coachHandler.RequestAttachmentUploadURL)
			coachGroup.POST("/budgets/:budgetId/attachment/confirm", coachHandler.ConfirmAttachment)
			coachGroup.GET("/budgets/:budgetId/attachment", coachHandler.GetAttachmentDownloadURL)

			// Assignment
			coachGroup.POST("/assignments", coachHandler.AssignBudget)
			coachGroup.GET("/assignments", coachHandler.ListAssignments)

			// Customers and leads
			coachGroup.POST("/customers", coachHandler.AddCustomer)
			coachGroup.GET("/customers", coachHandler.ListCustomers)
			coachGroup.POST("/customers/:customerId/leads", coachHandler.AddLead)
			coachGroup.GET("/customers/:customerId/leads", coachHandler.ListLeads)

			// Plan rows (append-only)
			coachGroup.POST("/plans/workout", coachHandler.CreateWorkoutPlan)
			coachGroup.POST("/plans/nutrition", coachHandler.CreateNutritionPlan)
			coachGroup.POST("/plans/supplement", coachHandler.CreateSupplementPlan)
			coachGroup.POST("/plans/steps", coachHandler.CreateStepsPlan)
		}
	}
}
