package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/mguerra/affiliation-service/internal/domain"
	"github.com/mguerra/affiliation-service/internal/logging"
)

// Settings tunes the per-product circuit breakers.
type Settings struct {
	// FailureRate is the failure ratio over the rolling window that trips
	// the breaker CLOSED -> OPEN.
	FailureRate float64
	// MinRequests is the minimum number of calls in the window before the
	// failure rate is evaluated at all.
	MinRequests uint32
	// Window is the rolling-window length for failure-rate accounting.
	Window time.Duration
	// OpenInterval is the cool-down before an OPEN breaker lets a trial
	// call through (OPEN -> HALF_OPEN).
	OpenInterval time.Duration
	// HalfOpenMaxCalls caps the trial calls allowed while HALF_OPEN.
	HalfOpenMaxCalls uint32
	// CallTimeout bounds each remote call; a timed-out call counts as a
	// failure for breaker accounting.
	CallTimeout time.Duration
}

// Gateway resolves customer and product snapshots from the back-office.
// Each product line gets its own named breaker, constructed here and owned
// by this value for the life of the process.
//
// Failure policy: a failed, timed-out, or short-circuited lookup yields
// domain.ErrRemoteUnavailable rather than the remote error. Orchestrators
// treat that as "no snapshot", which matches no eligibility branch, so a
// remote outage surfaces to callers as ordinary ineligibility.
type Gateway struct {
	client      *snapshotClient
	callTimeout time.Duration

	customers *gobreaker.CircuitBreaker[domain.Customer]
	accounts  *gobreaker.CircuitBreaker[domain.Account]
	credits   *gobreaker.CircuitBreaker[domain.Credit]
}

func New(baseURL string, s Settings) *Gateway {
	return &Gateway{
		client:      newSnapshotClient(baseURL),
		callTimeout: s.CallTimeout,
		customers:   newBreaker[domain.Customer]("customer", s),
		accounts:    newBreaker[domain.Account]("account", s),
		credits:     newBreaker[domain.Credit]("credit", s),
	}
}

func newBreaker[T any](name string, s Settings) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenMaxCalls,
		Interval:    s.Window,
		Timeout:     s.OpenInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// GetCustomer resolves a customer snapshot by id.
func (g *Gateway) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := g.customers.Execute(func() (domain.Customer, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		var c domain.Customer
		if err := g.client.getJSON(callCtx, "/customers/"+id, &c); err != nil {
			return domain.Customer{}, err
		}
		return c, nil
	})
	if err != nil {
		logging.FromContext(ctx).Warn("customer lookup failed",
			"customer_id", id,
			"error", err,
		)
		return domain.Customer{}, fmt.Errorf("GetCustomer: %w", domain.ErrRemoteUnavailable)
	}
	return customer, nil
}

// GetAccount resolves an account product snapshot by id.
func (g *Gateway) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	account, err := g.accounts.Execute(func() (domain.Account, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		var a domain.Account
		if err := g.client.getJSON(callCtx, "/products/accounts/"+id, &a); err != nil {
			return domain.Account{}, err
		}
		return a, nil
	})
	if err != nil {
		logging.FromContext(ctx).Warn("account lookup failed",
			"account_id", id,
			"error", err,
		)
		return domain.Account{}, fmt.Errorf("GetAccount: %w", domain.ErrRemoteUnavailable)
	}
	return account, nil
}

// GetCredit resolves a credit product snapshot by id.
func (g *Gateway) GetCredit(ctx context.Context, id string) (domain.Credit, error) {
	credit, err := g.credits.Execute(func() (domain.Credit, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		var c domain.Credit
		if err := g.client.getJSON(callCtx, "/products/credits/"+id, &c); err != nil {
			return domain.Credit{}, err
		}
		return c, nil
	})
	if err != nil {
		logging.FromContext(ctx).Warn("credit lookup failed",
			"credit_id", id,
			"error", err,
		)
		return domain.Credit{}, fmt.Errorf("GetCredit: %w", domain.ErrRemoteUnavailable)
	}
	return credit, nil
}
