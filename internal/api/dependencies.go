package api

import (
	"os"
	"strconv"

	"infinite-experiment/quartermaster/internal/common"
	"infinite-experiment/quartermaster/internal/db"
	"infinite-experiment/quartermaster/internal/db/repositories"
	"infinite-experiment/quartermaster/internal/metrics"
	"infinite-experiment/quartermaster/internal/services"
)

const defaultMaxImportBytes = 2 << 20 // 2 MiB

type Repositories struct {
	Aircraft    *repositories.AircraftRepository
	Customers   *repositories.CustomerRepository
	TypeMapping *repositories.TypeMappingRepository
	ImportLog   *repositories.ImportLogRepository
}

type Services struct {
	Cache      *common.CacheService
	Normalizer *services.TypeNormalizer
	Import     *services.ImportService
	ImportLogs *services.ImportLogService
	Export     *services.ExportService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Aircraft:    repositories.NewAircraftRepository(db.PgDB),
		Customers:   repositories.NewCustomerRepository(db.PgDB),
		TypeMapping: repositories.NewTypeMappingRepository(db.PgDB),
		ImportLog:   repositories.NewImportLogRepository(db.PgDB),
	}

	cacheSvc := common.NewCacheService(86400, 600)
	normalizer := services.NewTypeNormalizer(repos.TypeMapping, cacheSvc, metricsReg)

	indexes := services.NewMasterDataIndexBuilder(repos.Aircraft, repos.Customers)
	matcher := services.NewFuzzyMatcher(services.MatcherConfigFromEnv())
	reconciler := services.NewReconciler(indexes, normalizer, matcher)

	parser := services.NewFormatParser(maxImportBytes())
	validator := services.NewFieldValidator()

	svcs := &Services{
		Cache:      cacheSvc,
		Normalizer: normalizer,
		Import:     services.NewImportService(db.PgDB, parser, validator, reconciler, repos.ImportLog, metricsReg),
		ImportLogs: services.NewImportLogService(db.DB),
		Export:     services.NewExportService(repos.Aircraft, repos.Customers),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
	}, nil
}

func maxImportBytes() int {
	if raw := os.Getenv("IMPORT_MAX_BYTES"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultMaxImportBytes
}
