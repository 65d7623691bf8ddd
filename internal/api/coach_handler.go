package api

import (
	"errors"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- DTOs ---

type budgetRequest struct {
	Name                string                   `json:"name" binding:"required"`
	Targets             domain.NutritionTargets  `json:"targets"`
	StepsGoal           int                      `json:"stepsGoal"`
	StepsInstructions   string                   `json:"stepsInstructions"`
	Supplements         []domain.SupplementEntry `json:"supplements"`
	EatingOrder         string                   `json:"eatingOrder"`
	EatingRules         string                   `json:"eatingRules"`
	NutritionTemplateID *string                  `json:"nutritionTemplateId"`
	WorkoutTemplateID   *string                  `json:"workoutTemplateId"`
}

type assignBudgetRequest struct {
	BudgetID   string  `json:"budgetId" binding:"required"`
	CustomerID *string `json:"customerId"`
	LeadID     *string `json:"leadId"`
	Notes      string  `json:"notes"`
}

type customerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

type leadRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// planScope carries the fields shared by the four plan creation requests.
type planScope struct {
	BudgetID   *string    `json:"budgetId"`
	CustomerID *string    `json:"customerId"`
	LeadID     *string    `json:"leadId"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
}

type workoutPlanRequest struct {
	planScope
	Title   string              `json:"title"`
	Routine string              `json:"routine"`
	Split   domain.WorkoutSplit `json:"split"`
}

type nutritionPlanRequest struct {
	planScope
	Targets *domain.NutritionTargets `json:"targets"`
	Notes   string                   `json:"notes"`
}

type supplementPlanRequest struct {
	planScope
	Supplements []domain.SupplementEntry `json:"supplements"`
}

type stepsPlanRequest struct {
	planScope
	Goal         int    `json:"goal"`
	Instructions string `json:"instructions"`
}

type attachmentUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type attachmentConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Helpers ---

func getCoachID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func parsePathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+param+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseOptionalID(s *string) (*primitive.ObjectID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (p planScope) toMeta() (domain.PlanMeta, error) {
	budgetID, err := parseOptionalID(p.BudgetID)
	if err != nil {
		return domain.PlanMeta{}, errors.New("invalid budgetId")
	}
	customerID, err := parseOptionalID(p.CustomerID)
	if err != nil {
		return domain.PlanMeta{}, errors.New("invalid customerId")
	}
	leadID, err := parseOptionalID(p.LeadID)
	if err != nil {
		return domain.PlanMeta{}, errors.New("invalid leadId")
	}
	return domain.PlanMeta{
		BudgetID:   budgetID,
		CustomerID: customerID,
		LeadID:     leadID,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
	}, nil
}

func (h *CoachHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrBudgetNotFound), errors.Is(err, service.ErrCustomerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBudgetNotOwned):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClientScopeRequired), errors.Is(err, service.ErrAttachmentMissing):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Budgets ---

func (h *CoachHandler) CreateBudget(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := h.budgetFromRequest(coachID, req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.coachService.CreateBudget(c.Request.Context(), budget)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create budget.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CoachHandler) budgetFromRequest(coachID primitive.ObjectID, req budgetRequest) (*domain.Budget, error) {
	nutritionTemplateID, err := parseOptionalID(req.NutritionTemplateID)
	if err != nil {
		return nil, errors.New("invalid nutritionTemplateId")
	}
	workoutTemplateID, err := parseOptionalID(req.WorkoutTemplateID)
	if err != nil {
		return nil, errors.New("invalid workoutTemplateId")
	}
	return &domain.Budget{
		CoachID:             coachID,
		Name:                req.Name,
		Targets:             req.Targets,
		StepsGoal:           req.StepsGoal,
		StepsInstructions:   req.StepsInstructions,
		Supplements:         req.Supplements,
		EatingOrder:         req.EatingOrder,
		EatingRules:         req.EatingRules,
		NutritionTemplateID: nutritionTemplateID,
		WorkoutTemplateID:   workoutTemplateID,
	}, nil
}

func (h *CoachHandler) ListBudgets(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	budgets, err := h.coachService.ListBudgets(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve budgets.")
		return
	}
	if budgets == nil {
		budgets = []domain.Budget{}
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *CoachHandler) GetBudget(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	budgetID, ok := parsePathID(c, "budgetId")
	if !ok {
		return
	}
	budget, err := h.coachService.GetBudget(c.Request.Context(), coachID, budgetID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve budget.")
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *CoachHandler) UpdateBudget(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	budgetID, ok := parsePathID(c, "budgetId")
	if !ok {
		return
	}
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := h.budgetFromRequest(coachID, req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	budget.ID = budgetID

	if err := h.coachService.UpdateBudget(c.Request.Context(), coachID, budget); err != nil {
		h.handleServiceError(c, err, "Failed to update budget.")
		return
	}
	c.JSON(http.StatusOK, budget)
}

// --- Assignment ---

func (h *CoachHandler) AssignBudget(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	var req assignBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	budgetID, err := primitive.ObjectIDFromHex(req.BudgetID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid budgetId format.")
		return
	}
	customerID, err := parseOptionalID(req.CustomerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid customerId format.")
		return
	}
	leadID, err := parseOptionalID(req.LeadID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid leadId format.")
		return
	}

	assignment, err := h.coachService.AssignBudget(c.Request.Context(), coachID, budgetID, customerID, leadID, req.Notes)
	if err != nil {
		h.handleServiceError(c, err, "Failed to assign budget.")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *CoachHandler) ListAssignments(c *gin.Context) {
	key, ok := clientKeyFromQuery(c)
	if !ok {
		return
	}
	assignments, err := h.coachService.ListAssignments(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// --- Customers and leads ---

func (h *CoachHandler) AddCustomer(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := h.coachService.AddCustomer(c.Request.Context(), &domain.Customer{
		CoachID: coachID,
		Name:    req.Name,
		Email:   req.Email,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create customer.")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CoachHandler) ListCustomers(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	customers, err := h.coachService.ListCustomers(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve customers.")
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CoachHandler) AddLead(c *gin.Context) {
	customerID, ok := parsePathID(c, "customerId")
	if !ok {
		return
	}
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := h.coachService.AddLead(c.Request.Context(), &domain.Lead{
		CustomerID: customerID,
		Name:       req.Name,
		Email:      req.Email,
	})
	if err != nil {
		h.handleServiceError(c, err, "Failed to create lead.")
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *CoachHandler) ListLeads(c *gin.Context) {
	customerID, ok := parsePathID(c, "customerId")
	if !ok {
		return
	}
	leads, err := h.coachService.ListLeads(c.Request.Context(), customerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve leads.")
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	c.JSON(http.StatusOK, leads)
}

// --- Plan rows ---

func (h *CoachHandler) CreateWorkoutPlan(c *gin.Context) {
	var req workoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	meta, err := req.toMeta()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	plan := &domain.WorkoutPlan{PlanMeta: meta, Title: req.Title, Routine: req.Routine, Split: req.Split}
	id, err := h.coachService.CreateWorkoutPlan(c.Request.Context(), plan)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

func (h *CoachHandler) CreateNutritionPlan(c *gin.Context) {
	var req nutritionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	meta, err := req.toMeta()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	plan := &domain.NutritionPlan{PlanMeta: meta, Targets: req.Targets, Notes: req.Notes}
	id, err := h.coachService.CreateNutritionPlan(c.Request.Context(), plan)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

func (h *CoachHandler) CreateSupplementPlan(c *gin.Context) {
	var req supplementPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	meta, err := req.toMeta()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	plan := &domain.SupplementPlan{PlanMeta: meta, Supplements: req.Supplements}
	id, err := h.coachService.CreateSupplementPlan(c.Request.Context(), plan)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

func (h *CoachHandler) CreateStepsPlan(c *gin.Context) {
	var req stepsPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	meta, err := req.toMeta()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	plan := &domain.StepsPlan{PlanMeta: meta, Goal: req.Goal, Instructions: req.Instructions}
	id, err := h.coachService.CreateStepsPlan(c.Request.Context(), plan)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

// --- Budget attachments ---

func (h *CoachHandler) RequestAttachmentUploadURL(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	budgetID, ok := parsePathID(c, "budgetId")
	if !ok {
		return
	}
	var req attachmentUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.coachService.RequestAttachmentUploadURL(c.Request.Context(), coachID, budgetID, req.ContentType)
	if err != nil {
		h.handleServiceError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CoachHandler) ConfirmAttachment(c *gin.Context) {
	coachID, ok := getCoachID(c)
	if !ok {
		return
	}
	budgetID, ok := parsePathID(c, "budgetId")
	if !ok {
		return
	}
	var req attachmentConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.coachService.ConfirmAttachment(c.Request.Context(), coachID, budgetID, req.ObjectKey); err != nil {
		h.handleServiceError(c, err, "Failed to confirm attachment.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CoachHandler) GetAttachmentDownloadURL(c *gin.Context) {
	budgetID, ok := parsePathID(c, "budgetId")
	if !ok {
		return
	}
	url, err := h.coachService.GetAttachmentDownloadURL(c.Request.Context(), budgetID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to generate download URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
