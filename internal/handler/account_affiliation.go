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

type accountAffiliationService interface {
	Create(ctx context.Context, req service.AccountAffiliationRequest) (*domain.AccountAffiliation, error)
	Update(ctx context.Context, id uuid.UUID, req service.AccountAffiliationRequest) (*domain.AccountAffiliation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountAffiliation, error)
	GetAll(ctx context.Context) ([]domain.AccountAffiliation, error)
	GetByCustomer(ctx context.Context, customerID string) ([]domain.AccountAffiliation, error)
	GetByCustomerAndAccount(ctx context.Context, customerID, accountID string) ([]domain.AccountAffiliation, error)
}

type AccountAffiliationHandler struct {
	affiliations accountAffiliationService
}

func NewAccountAffiliationHandler(affiliations accountAffiliationService) *AccountAffiliationHandler {
	return &AccountAffiliationHandler{affiliations: affiliations}
}

type accountAffiliationRequest struct {
	CustomerID      string `json:"customer_id"`
	AccountID       string `json:"account_id"`
	NumberOfHolders int    `json:"number_of_holders"`
	NumberOfSigners int    `json:"number_of_signers"`
	Balance         int64  `json:"balance"`
	MovementDay     int    `json:"movement_day"`
	Number          string `json:"number"`
	Status          string `json:"status"`
}

func (r accountAffiliationRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	}
	if r.AccountID == "" {
		errs = append(errs, FieldError{Field: "account_id", Message: "required"})
	}
	if r.NumberOfHolders < 0 {
		errs = append(errs, FieldError{Field: "number_of_holders", Message: "must not be negative"})
	}
	if r.NumberOfSigners < 0 {
		errs = append(errs, FieldError{Field: "number_of_signers", Message: "must not be negative"})
	}
	return errs
}

func (r accountAffiliationRequest) toServiceRequest() service.AccountAffiliationRequest {
	return service.AccountAffiliationRequest{
		CustomerID:      r.CustomerID,
		AccountID:       r.AccountID,
		NumberOfHolders: r.NumberOfHolders,
		NumberOfSigners: r.NumberOfSigners,
		Balance:         r.Balance,
		MovementDay:     r.MovementDay,
		Number:          r.Number,
		Status:          domain.AffiliationStatus(r.Status),
	}
}

type accountAffiliationDTO struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      string    `json:"customer_id"`
	AccountID       string    `json:"account_id"`
	NumberOfHolders int       `json:"number_of_holders"`
	NumberOfSigners int       `json:"number_of_signers"`
	Balance         int64     `json:"balance"`
	MovementDay     int       `json:"movement_day"`
	Number          string    `json:"number"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func toAccountAffiliationDTO(a *domain.AccountAffiliation) accountAffiliationDTO {
	return accountAffiliationDTO{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		AccountID:       a.AccountID,
		NumberOfHolders: a.NumberOfHolders,
		NumberOfSigners: a.NumberOfSigners,
		Balance:         a.Balance,
		MovementDay:     a.MovementDay,
		Number:          a.Number,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func toAccountAffiliationDTOs(affiliations []domain.AccountAffiliation) []accountAffiliationDTO {
	dtos := make([]accountAffiliationDTO, 0, len(affiliations))
	for i := range affiliations {
		dtos = append(dtos, toAccountAffiliationDTO(&affiliations[i]))
	}
	return dtos
}

func (h *AccountAffiliationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req accountAffiliationRequest
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

	RespondSuccess(w, http.StatusOK, toAccountAffiliationDTO(affiliation))
}

func (h *AccountAffiliationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req accountAffiliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	affiliation, err := h.affiliations.Update(r.Context(), id, req.toServiceRequest())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountAffiliationDTO(affiliation))
}

func (h *AccountAffiliationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *AccountAffiliationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

	RespondSuccess(w, http.StatusOK, toAccountAffiliationDTO(affiliation))
}

func (h *AccountAffiliationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	affiliations, err := h.affiliations.GetAll(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountAffiliationDTOs(affiliations))
}

func (h *AccountAffiliationHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	affiliations, err := h.affiliations.GetByCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	if len(affiliations) == 0 {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountAffiliationDTOs(affiliations))
}

func (h *AccountAffiliationHandler) GetByCustomerAndAccount(w http.ResponseWriter, r *http.Request) {
	affiliations, err := h.affiliations.GetByCustomerAndAccount(
		r.Context(), r.PathValue("customerId"), r.PathValue("accountId"),
	)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	if len(affiliations) == 0 {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountAffiliationDTOs(affiliations))
}
