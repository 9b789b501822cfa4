package repositories

// RepositoryProvider aggregates all repository implementations for wiring.
type RepositoryProvider struct {
	AccountRepo     AccountReader
	JournalRepo     JournalRepositoryWithTx
	IdempotencyRepo IdempotencyRepositoryWithTx
}
