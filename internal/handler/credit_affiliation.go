package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mguerra/affiliation-service/internal/domain"
	"github.com/mguerra/affiliation-service/internal/service"
)

type creditAffiliationService interface {
	Create(ctx context.Context, req service.CreditAffiliationRequest) (*domain.CreditAffiliation, error)
	Update(ctx context.Context, id uuid.UUID, req service.CreditAffiliationRequest) (*domain.CreditAffiliation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditAffiliation, error)
	GetAll(ctx context.Context) ([]domain.CreditAffiliation, error)
	GetByCustomer(ctx context.Context, customerID string) ([]domain.CreditAffiliation, error)
	GetByCustomerAndCredit(ctx context.Context, customerID, creditID string) ([]domain.CreditAffiliation, error)
}

type CreditAffiliationHandler struct {
	affiliations creditAffiliationService
}

func NewCreditAffiliationHandler(affiliations creditAffiliationService) *CreditAffiliationHandler {
	return &CreditAffiliationHandler{affiliations: affiliations}
}

type creditAffiliationRequest struct {
	CustomerID  string `json:"customer_id"`
	CreditID    string `json:"credit_id"`
	Balance     int64  `json:"balance"`
	CardNumber  string `json:"card_number"`
	CreditLimit int64  `json:"credit_limit"`
	LoanNumber  string `json:"loan_number"`
}

func (r creditAffiliationRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	}
	if r.CreditID == "" {
		errs = append(errs, FieldError{Field: "credit_id", Message: "required"})
	}
	return errs
}

func (r creditAffiliationRequest) toServiceRequest() service.CreditAffiliationRequest {
	return service.CreditAffiliationRequest{
		CustomerID:  r.CustomerID,
		CreditID:    r.CreditID,
		Balance:     r.Balance,
		CardNumber:  r.CardNumber,
		CreditLimit: r.CreditLimit,
		LoanNumber:  r.LoanNumber,
	}
}

type creditAffiliationDTO struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  string          `json:"customer_id"`
	CreditID    string          `json:"credit_id"`
	Customer    domain.Customer `json:"customer"`
	Credit      domain.Credit   `json:"credit"`
	Balance     int64           `json:"balance"`
	CardNumber  string          `json:"card_number"`
	CreditLimit int64           `json:"credit_limit"`
	LoanNumber  string          `json:"loan_number"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toCreditAffiliationDTO(c *domain.CreditAffiliation) creditAffiliationDTO {
	return creditAffiliationDTO{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		CreditID:    c.CreditID,
		Customer:    c.Customer,
		Credit:      c.Credit,
		Balance:     c.Balance,
		CardNumber:  c.CardNumber,
		CreditLimit: c.CreditLimit,
		LoanNumber:  c.LoanNumber,
		CreatedAt:   c.CreatedAt,
	}
}

func toCreditAffiliationDTOs(affiliations []domain.CreditAffiliation) []creditAffiliationDTO {
	dtos := make([]creditAffiliationDTO, 0, len(affiliations))
	for i := range affiliations {
		dtos = append(dtos, toCreditAffiliationDTO(&affiliations[i]))
	}
	return dtos
}

func (h *CreditAffiliationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req creditAffiliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	affiliation, err := h.affiliations.Create(r.Context(), req.toServiceRequest())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toCreditAffiliationDTO(affiliation))
}

func (h *CreditAffiliationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req creditAffiliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	affiliation, err := h.affiliations.Update(r.Context(), id, req.toServiceRequest())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toCreditAffiliationDTO(affiliation))
}

func (h *CreditAffiliationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.affiliations.Delete(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CreditAffiliationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	affiliation, err := h.affiliations.GetByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toCreditAffiliationDTO(affiliation))
}

func (h *CreditAffiliationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	affiliations, err := h.affiliations.GetAll(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toCreditAffiliationDTOs(affiliations))
}

func (h *CreditAffiliationHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	affiliations, err := h.affiliations.GetByCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	if len(affiliations) == 0 {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, toCreditAffiliationDTOs(affiliations))
}

func (h *CreditAffiliationHandler) GetByCustomerAndCredit(w http.ResponseWriter, r *http.Request) {
	affiliations, err := h.affiliations.GetByCustomerAndCredit(
		r.Context(), r.PathValue("customerId"), r.PathValue("creditId"),
	)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	if len(affiliations) == 0 {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, toCreditAffiliationDTOs(affiliations))
}
