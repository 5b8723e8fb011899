package services

import (
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/platform/config"
)

// NewServiceContainer creates the service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.NotificationScheduler, widget portssvc.WidgetSync) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Detection = NewDetectionService(cfg.Engine)
	container.Importer = NewImportService(repos.SessionRepo, repos.ExpenseRepo, container.Detection, cfg.Engine)
	container.Sync = NewSyncService(repos.TemplateRepo, repos.ExpenseRepo, repos.SnapshotRepo, notifier, widget, cfg.Engine)
	container.Template = NewTemplateService(repos.TemplateRepo, repos.SessionRepo, container.Sync)
	container.Generation = NewGenerationService(repos.TemplateRepo, repos.ExpenseRepo, notifier, widget, cfg.Engine)
	container.Expense = NewExpenseService(repos.ExpenseRepo)

	return container
}
