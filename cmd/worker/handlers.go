package main

import (
	"github.com/hibiken/asynq"

	saleJob "bookreview-backend/internal/domains/sale/job"
	"bookreview-backend/internal/infrastructure/search"
	searchJob "bookreview-backend/internal/infrastructure/search/job"
	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Search index sync
	searchSync *searchJob.SyncHandler

	// Maintenance
	reconcileSales *saleJob.ReconcileHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		searchSync:     searchJob.NewSyncHandler(c.SearchIndex, search.NewPostgresSource(c.DB.Pool)),
		reconcileSales: saleJob.NewReconcileHandler(c.SaleService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Search tasks
	mux.HandleFunc(shared.TypeSearchUpsertBook, h.searchSync.ProcessTask)
	mux.HandleFunc(shared.TypeSearchDeleteBook, h.searchSync.ProcessTask)
	mux.HandleFunc(shared.TypeSearchUpsertReview, h.searchSync.ProcessTask)
	mux.HandleFunc(shared.TypeSearchDeleteReview, h.searchSync.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypeReconcileSaleTotals, h.reconcileSales.ProcessTask)
}
