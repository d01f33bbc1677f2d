package domain

type AccountKind string

const (
	AccountKindChecking  AccountKind = "CHECKING"
	AccountKindSavings   AccountKind = "SAVINGS"
	AccountKindFixedTerm AccountKind = "FIXED_TERM"
)

func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindChecking, AccountKindSavings, AccountKindFixedTerm:
		return true
	}
	return false
}

// Account is a read-only snapshot of a bank account product, fetched from
// the product service per decision.
type Account struct {
	ID   string      `json:"id"`
	Kind AccountKind `json:"accountKind"`
}

type CreditKind string

const (
	CreditKindEnterpriseLoan CreditKind = "ENTERPRISE_LOAN"
	CreditKindEnterpriseCard CreditKind = "ENTERPRISE_CARD"
	CreditKindPersonalLoan   CreditKind = "PERSONAL_LOAN"
	CreditKindPersonalCard   CreditKind = "PERSONAL_CARD"
)

func (k CreditKind) IsEnterprise() bool {
	return k == CreditKindEnterpriseLoan || k == CreditKindEnterpriseCard
}

func (k CreditKind) IsPersonal() bool {
	return k == CreditKindPersonalLoan || k == CreditKindPersonalCard
}

// Credit is a read-only snapshot of a credit product, fetched from the
// product service per decision.
type Credit struct {
	ID   string     `json:"id"`
	Kind CreditKind `json:"creditKind"`
}
