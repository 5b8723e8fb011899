package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TemplateRepo: newPgxTemplateRepository(dbPool),
		ExpenseRepo:  newPgxExpenseRepository(dbPool),
		SessionRepo:  newPgxImportSessionRepository(dbPool),
		SnapshotRepo: newPgxSnapshotRepository(dbPool),
	}
}
