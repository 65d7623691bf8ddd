package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"
	"fitcoach/coaching-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrBudgetNotOwned      = errors.New("budget does not belong to this coach")
	ErrClientScopeRequired = errors.New("customerId or leadId is required")
	ErrAttachmentURLError  = errors.New("failed to generate attachment URL")
	ErrAttachmentMissing   = errors.New("budget has no attachment")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the coach reports back on confirm
}

// CoachService covers the dashboard's write side: program templates,
// assignments, plan rows, customers/leads and budget attachments. The
// resolution engine only ever reads what this service writes.
type CoachService interface {
	// Budgets (program templates)
	CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	GetBudget(ctx context.Context, coachID, budgetID primitive.ObjectID) (*domain.Budget, error)
	ListBudgets(ctx context.Context, coachID primitive.ObjectID) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, coachID primitive.ObjectID, budget *domain.Budget) error

	// Assignment: activating a budget for a client deactivates whatever was
	// active before, keeping at most one active assignment per client.
	AssignBudget(ctx context.Context, coachID, budgetID primitive.ObjectID, customerID, leadID *primitive.ObjectID, notes string) (*domain.BudgetAssignment, error)
	ListAssignments(ctx context.Context, key domain.ClientKey) ([]domain.BudgetAssignment, error)

	// Customers and leads
	AddCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	ListCustomers(ctx context.Context, coachID primitive.ObjectID) ([]domain.Customer, error)
	AddLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	ListLeads(ctx context.Context, customerID primitive.ObjectID) ([]domain.Lead, error)

	// Plan rows (append-only)
	CreateWorkoutPlan(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	CreateNutritionPlan(ctx context.Context, plan *domain.NutritionPlan) (primitive.ObjectID, error)
	CreateSupplementPlan(ctx context.Context, plan *domain.SupplementPlan) (primitive.ObjectID, error)
	CreateStepsPlan(ctx context.Context, plan *domain.StepsPlan) (primitive.ObjectID, error)

	// Budget attachments (template documents in object storage)
	RequestAttachmentUploadURL(ctx context.Context, coachID, budgetID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmAttachment(ctx context.Context, coachID, budgetID primitive.ObjectID, objectKey string) error
	GetAttachmentDownloadURL(ctx context.Context, budgetID primitive.ObjectID) (string, error)
}

// coachService implements the CoachService interface.
type coachService struct {
	budgetRepo     repository.BudgetRepository
	assignmentRepo repository.BudgetAssignmentRepository
	customerRepo   repository.CustomerRepository
	leadRepo       repository.LeadRepository
	workoutRepo    repository.PlanRepository[domain.WorkoutPlan]
	nutritionRepo  repository.PlanRepository[domain.NutritionPlan]
	supplementRepo repository.PlanRepository[domain.SupplementPlan]
	stepsRepo      repository.PlanRepository[domain.StepsPlan]
	fileStorage    storage.FileStorage
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	budgetRepo repository.BudgetRepository,
	assignmentRepo repository.BudgetAssignmentRepository,
	customerRepo repository.CustomerRepository,
	leadRepo repository.LeadRepository,
	workoutRepo repository.PlanRepository[domain.WorkoutPlan],
	nutritionRepo repository.PlanRepository[domain.NutritionPlan],
	supplementRepo repository.PlanRepository[domain.SupplementPlan],
	stepsRepo repository.PlanRepository[domain.StepsPlan],
	fileStorage storage.FileStorage,
) CoachService {
	return &coachService{
		budgetRepo:     budgetRepo,
		assignmentRepo: assignmentRepo,
		customerRepo:   customerRepo,
		leadRepo:       leadRepo,
		workoutRepo:    workoutRepo,
		nutritionRepo:  nutritionRepo,
		supplementRepo: supplementRepo,
		stepsRepo:      stepsRepo,
		fileStorage:    fileStorage,
	}
}

// === Budgets ===

func (s *coachService) CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	id, err := s.budgetRepo.Create(ctx, budget)
	if err != nil {
		return nil, err
	}
	budget.ID = id
	return budget, nil
}

// getOwnedBudget fetches a budget and verifies coach ownership.
func (s *coachService) getOwnedBudget(ctx context.Context, coachID, budgetID primitive.ObjectID) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	if budget.CoachID != coachID {
		return nil, ErrBudgetNotOwned
	}
	return budget, nil
}

func (s *coachService) GetBudget(ctx context.Context, coachID, budgetID primitive.ObjectID) (*domain.Budget, error) {
	return s.getOwnedBudget(ctx, coachID, budgetID)
}

func (s *coachService) ListBudgets(ctx context.Context, coachID primitive.ObjectID) ([]domain.Budget, error) {
	return s.budgetRepo.GetByCoachID(ctx, coachID)
}

func (s *coachService) UpdateBudget(ctx context.Context, coachID primitive.ObjectID, budget *domain.Budget) error {
	existing, err := s.getOwnedBudget(ctx, coachID, budget.ID)
	if err != nil {
		return err
	}
	// Attachment key is managed via the upload flow, not plain updates.
	budget.AttachmentKey = existing.AttachmentKey
	return s.budgetRepo.Update(ctx, budget)
}

// === Assignment ===

func (s *coachService) AssignBudget(ctx context.Context, coachID, budgetID primitive.ObjectID, customerID, leadID *primitive.ObjectID, notes string) (*domain.BudgetAssignment, error) {
	if customerID == nil && leadID == nil {
		return nil, ErrClientScopeRequired
	}
	if _, err := s.getOwnedBudget(ctx, coachID, budgetID); err != nil {
		return nil, err
	}

	// Supersede, don't delete: old assignments stay for history with the
	// active flag cleared.
	if err := s.assignmentRepo.DeactivateForClient(ctx, customerID, leadID); err != nil {
		return nil, err
	}

	assignment := &domain.BudgetAssignment{
		BudgetID:   budgetID,
		CustomerID: customerID,
		LeadID:     leadID,
		IsActive:   true,
		Notes:      notes,
	}
	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

func (s *coachService) ListAssignments(ctx context.Context, key domain.ClientKey) ([]domain.BudgetAssignment, error) {
	return s.assignmentRepo.GetByClient(ctx, key)
}

// === Customers and leads ===

func (s *coachService) AddCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	id, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	customer.ID = id
	return customer, nil
}

func (s *coachService) ListCustomers(ctx context.Context, coachID primitive.ObjectID) ([]domain.Customer, error) {
	return s.customerRepo.GetByCoachID(ctx, coachID)
}

func (s *coachService) AddLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if _, err := s.customerRepo.GetByID(ctx, lead.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	id, err := s.leadRepo.Create(ctx, lead)
	if err != nil {
		return nil, err
	}
	lead.ID = id
	return lead, nil
}

func (s *coachService) ListLeads(ctx context.Context, customerID primitive.ObjectID) ([]domain.Lead, error) {
	return s.leadRepo.GetByCustomerID(ctx, customerID)
}

// === Plan rows ===

func (s *coachService) CreateWorkoutPlan(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	return s.workoutRepo.Create(ctx, plan)
}

func (s *coachService) CreateNutritionPlan(ctx context.Context, plan *domain.NutritionPlan) (primitive.ObjectID, error) {
	return s.nutritionRepo.Create(ctx, plan)
}

func (s *coachService) CreateSupplementPlan(ctx context.Context, plan *domain.SupplementPlan) (primitive.ObjectID, error) {
	return s.supplementRepo.Create(ctx, plan)
}

func (s *coachService) CreateStepsPlan(ctx context.Context, plan *domain.StepsPlan) (primitive.ObjectID, error) {
	return s.stepsRepo.Create(ctx, plan)
}

// === Budget attachments ===

// RequestAttachmentUploadURL generates a presigned URL the coach uploads a
// template document through. The object key comes back on confirm.
func (s *coachService) RequestAttachmentUploadURL(ctx context.Context, coachID, budgetID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if contentType == "" {
		return nil, errors.New("content type is required")
	}
	if _, err := s.getOwnedBudget(ctx, coachID, budgetID); err != nil {
		return nil, err
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("budgets", budgetID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrAttachmentURLError
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmAttachment records the uploaded object key on the budget, replacing
// (and deleting) any previous attachment.
func (s *coachService) ConfirmAttachment(ctx context.Context, coachID, budgetID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	budget, err := s.getOwnedBudget(ctx, coachID, budgetID)
	if err != nil {
		return err
	}

	previous := budget.AttachmentKey
	budget.AttachmentKey = objectKey
	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return err
	}

	if previous != "" && previous != objectKey {
		// Best effort; a stale object is not worth failing the confirm.
		_ = s.fileStorage.DeleteObject(ctx, previous)
	}
	return nil
}

// GetAttachmentDownloadURL generates a temporary viewing URL for a budget's
// template document.
func (s *coachService) GetAttachmentDownloadURL(ctx context.Context, budgetID primitive.ObjectID) (string, error) {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrBudgetNotFound
		}
		return "", err
	}
	if budget.AttachmentKey == "" {
		return "", ErrAttachmentMissing
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, budget.AttachmentKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrAttachmentURLError
	}
	return downloadURL, nil
}
