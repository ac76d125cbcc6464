package api

import (
	"github.com/tomaz/masterly/internal/db"
	"github.com/tomaz/masterly/internal/services"
	"github.com/tomaz/masterly/internal/worker"
)

type Server struct {
	DB                 *db.DB
	RefreshPool        *worker.Pool
	ReviewService      services.ReviewService
	BatchService       services.BatchService
	TaskService        services.TaskService
	ProgressionService services.ProgressionService
	PreferenceService  services.PreferenceService
}
