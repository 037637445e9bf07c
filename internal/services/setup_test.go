package services

import (
	"testing"

	"infinite-experiment/quartermaster/internal/common"
	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/db/repositories"
	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.Aircraft{},
		&gormModels.Customer{},
		&gormModels.AircraftTypeMapping{},
		&gormModels.ImportLog{},
		&gormModels.User{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

type testEngine struct {
	db           *gorm.DB
	cache        *common.CacheService
	normalizer   *TypeNormalizer
	reconciler   *Reconciler
	importSvc    *ImportService
	exportSvc    *ExportService
	aircraftRepo *repositories.AircraftRepository
	customerRepo *repositories.CustomerRepository
	mappingRepo  *repositories.TypeMappingRepository
}

func newTestEngine(t *testing.T) *testEngine {
	db := setupTestDB(t)

	aircraftRepo := repositories.NewAircraftRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	mappingRepo := repositories.NewTypeMappingRepository(db)
	logRepo := repositories.NewImportLogRepository(db)

	cache := common.NewCacheService(3600, 600)
	normalizer := NewTypeNormalizer(mappingRepo, cache, nil)
	indexes := NewMasterDataIndexBuilder(aircraftRepo, customerRepo)
	matcher := NewFuzzyMatcher(MatcherConfig{NearDuplicateThreshold: DefaultNearDuplicateThreshold})
	reconciler := NewReconciler(indexes, normalizer, matcher)

	parser := NewFormatParser(1 << 20)
	validator := NewFieldValidator()

	return &testEngine{
		db:           db,
		cache:        cache,
		normalizer:   normalizer,
		reconciler:   reconciler,
		importSvc:    NewImportService(db, parser, validator, reconciler, logRepo, nil),
		exportSvc:    NewExportService(aircraftRepo, customerRepo),
		aircraftRepo: aircraftRepo,
		customerRepo: customerRepo,
		mappingRepo:  mappingRepo,
	}
}

func seedAircraft(t *testing.T, db *gorm.DB, registration, rawType, canonicalType, operator string, source constants.RecordSource) gormModels.Aircraft {
	ac := gormModels.Aircraft{
		ID:            uuid.NewString(),
		Registration:  registration,
		RawType:       rawType,
		CanonicalType: canonicalType,
		OperatorName:  operator,
		Source:        source,
		IsActive:      true,
	}
	if err := db.Create(&ac).Error; err != nil {
		t.Fatalf("Failed to seed aircraft: %v", err)
	}
	return ac
}

func seedCustomer(t *testing.T, db *gorm.DB, name string, source constants.RecordSource) gormModels.Customer {
	c := gormModels.Customer{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: name,
		Source:      source,
		IsActive:    true,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return c
}

func seedMapping(t *testing.T, db *gorm.DB, pattern, canonical string, priority int) gormModels.AircraftTypeMapping {
	m := gormModels.AircraftTypeMapping{
		ID:            uuid.NewString(),
		Pattern:       pattern,
		CanonicalType: canonical,
		Priority:      priority,
		IsActive:      true,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to seed type mapping: %v", err)
	}
	return m
}
