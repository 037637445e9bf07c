package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/db/repositories"
	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSharedDB opens the same in-memory database twice: once through GORM
// for schema and seeding, once through sqlx for the raw read path under test.
func setupSharedDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&gormModels.ImportLog{}, &gormModels.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	sdb, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to open sqlx connection: %v", err)
	}
	t.Cleanup(func() { sdb.Close() })

	return gdb, sdb
}

func seedLogEntries(t *testing.T, gdb *gorm.DB, actorID string, n int) {
	repo := repositories.NewImportLogRepository(gdb)
	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)

	for i := 0; i < n; i++ {
		entry := &gormModels.ImportLog{
			ImportedAt:  base.Add(time.Duration(i) * time.Minute),
			RecordCount: i,
			Source:      constants.ImportSourceFile,
			ImportedBy:  actorID,
			Status:      constants.ImportStatusSuccess,
		}
		if _, err := repo.Append(context.Background(), entry); err != nil {
			t.Fatalf("Failed to seed audit entry: %v", err)
		}
	}
}

func TestImportLogService_NewestFirst(t *testing.T) {
	gdb, sdb := setupSharedDB(t)
	seedLogEntries(t, gdb, "actor-1", 5)

	page, err := NewImportLogService(sdb).List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(page.Data) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(page.Data))
	}
	for i := 1; i < len(page.Data); i++ {
		if page.Data[i].ImportedAt.After(page.Data[i-1].ImportedAt) {
			t.Errorf("Entries out of order at index %d: %v after %v", i, page.Data[i].ImportedAt, page.Data[i-1].ImportedAt)
		}
	}
	// Seeded record counts ascend with time, so the newest entry carries the
	// highest count.
	if page.Data[0].RecordCount != 4 {
		t.Errorf("Expected the newest entry first, got recordCount %d", page.Data[0].RecordCount)
	}
}

func TestImportLogService_Pagination(t *testing.T) {
	gdb, sdb := setupSharedDB(t)
	seedLogEntries(t, gdb, "actor-1", 7)

	svc := NewImportLogService(sdb)

	first, err := svc.List(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.Pagination.Total != 7 || first.Pagination.TotalPages != 3 {
		t.Errorf("Expected total=7 totalPages=3, got %+v", first.Pagination)
	}
	if len(first.Data) != 3 {
		t.Errorf("Expected a full first page, got %d", len(first.Data))
	}

	last, err := svc.List(context.Background(), 3, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(last.Data) != 1 {
		t.Errorf("Expected 1 entry on the last page, got %d", len(last.Data))
	}

	// Pages must not overlap
	seen := map[string]bool{}
	for _, p := range []int{1, 2, 3} {
		page, err := svc.List(context.Background(), p, 3)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for _, row := range page.Data {
			if seen[row.ID] {
				t.Errorf("Entry %s appeared on more than one page", row.ID)
			}
			seen[row.ID] = true
		}
	}
	if len(seen) != 7 {
		t.Errorf("Expected pages to cover all 7 entries, got %d", len(seen))
	}
}

func TestImportLogService_ClampsPageArguments(t *testing.T) {
	gdb, sdb := setupSharedDB(t)
	seedLogEntries(t, gdb, "actor-1", 2)

	svc := NewImportLogService(sdb)

	page, err := svc.List(context.Background(), -3, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.PageSize != 20 {
		t.Errorf("Expected defaults page=1 pageSize=20, got %+v", page.Pagination)
	}

	page, err = svc.List(context.Background(), 1, 5000)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Pagination.PageSize != 100 {
		t.Errorf("Expected page size capped at 100, got %d", page.Pagination.PageSize)
	}
}

func TestImportLogService_JoinsActorName(t *testing.T) {
	gdb, sdb := setupSharedDB(t)

	user := gormModels.User{ID: uuid.NewString(), UserName: "dispatcher", IsActive: true}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	seedLogEntries(t, gdb, user.ID, 1)
	seedLogEntries(t, gdb, "api-key-7c1", 1)

	page, err := NewImportLogService(sdb).List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(page.Data))
	}

	names := map[string]string{}
	for _, row := range page.Data {
		names[row.ImportedBy] = row.ImportedByName
	}
	if names[user.ID] != "dispatcher" {
		t.Errorf("Expected the known actor's username joined in, got %q", names[user.ID])
	}
	// An actor with no user row falls back to the raw identifier.
	if names["api-key-7c1"] != "api-key-7c1" {
		t.Errorf("Expected fallback to the raw actor id, got %q", names["api-key-7c1"])
	}
}

func TestImportLogService_EmptyTable(t *testing.T) {
	_, sdb := setupSharedDB(t)

	page, err := NewImportLogService(sdb).List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page.Data) != 0 {
		t.Errorf("Expected no entries, got %d", len(page.Data))
	}
	if page.Pagination.Total != 0 || page.Pagination.TotalPages != 0 {
		t.Errorf("Expected zeroed pagination, got %+v", page.Pagination)
	}
}
