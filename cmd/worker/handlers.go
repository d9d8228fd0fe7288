package main

import (
	"github.com/hibiken/asynq"

	projectJob "kinex-backend/internal/domains/project/job"
	"kinex-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteUpload *projectJob.DeleteUploadHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(deleter projectJob.ObjectDeleter, refs projectJob.ReferenceChecker) *HandlerRegistry {
	return &HandlerRegistry{
		deleteUpload: projectJob.NewDeleteUploadHandler(deleter, refs),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Upload cleanup
	mux.HandleFunc(shared.TypeDeleteUploadedObject, h.deleteUpload.ProcessTask)
}
