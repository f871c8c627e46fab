package controllers

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/clearance"
	"github.com/ManuelReschke/RAAS/internal/pkg/exclusion"
	"github.com/ManuelReschke/RAAS/internal/pkg/statistics"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
)

// Controllers bundles every API controller
type Controllers struct {
	Provider          *ProviderController
	ExclusionType     *ExclusionTypeController
	Representator     *RepresentatorController
	ProviderExclusion *ProviderExclusionController
	Clearance         *ClearanceController
	Statistics        *StatisticsController
}

// NewControllers wires controllers and services on top of repositories
func NewControllers(db *gorm.DB, repos *repository.Repositories, locker subjectlock.Locker) *Controllers {
	exclusionService := exclusion.NewService(exclusion.NewRepository(db), repos.Provider, repos.ExclusionType, locker)
	clearanceService := clearance.NewService(clearance.NewRepository(db), repos.Provider, repos.Representator, locker)

	return &Controllers{
		Provider:          NewProviderController(repos.Provider, repos.Representator),
		ExclusionType:     NewExclusionTypeController(repos.ExclusionType),
		Representator:     NewRepresentatorController(repos.Representator, repos.Provider),
		ProviderExclusion: NewProviderExclusionController(exclusionService),
		Clearance:         NewClearanceController(clearanceService),
		Statistics:        NewStatisticsController(statistics.NewCollector(db)),
	}
}

var apiControllers *Controllers

// InitializeControllers builds the global controllers from the global repository factory
func InitializeControllers(locker subjectlock.Locker) {
	factory := repository.GetGlobalFactory()
	apiControllers = NewControllers(factory.DB(), factory.GetRepositories(), locker)
}

// GetControllers returns the global controllers instance
func GetControllers() *Controllers {
	if apiControllers == nil {
		panic("Controllers not initialized. Call InitializeControllers first.")
	}
	return apiControllers
}
