package memory

// Store bundles one of each in-memory repository.
type Store struct {
	Transactions         *TransactionRepository
	PersonalTransactions *PersonalTransactionRepository
	AccountCategories    *AccountCategoryRepository
	Vendors              *VendorRepository
	Projects             *ProjectRepository
	ProjectExpenses      *ProjectExpenseRepository
	Expenses             *ExpenseRepository
	Users                *UserRepository
	Outbox               *OutboxRepository
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		Transactions:         NewTransactionRepository(),
		PersonalTransactions: NewPersonalTransactionRepository(),
		AccountCategories:    NewAccountCategoryRepository(),
		Vendors:              NewVendorRepository(),
		Projects:             NewProjectRepository(),
		ProjectExpenses:      NewProjectExpenseRepository(),
		Expenses:             NewExpenseRepository(),
		Users:                NewUserRepository(),
		Outbox:               NewOutboxRepository(),
	}
}
