package database

import (
	"embed"
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/pkg/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Engines holds the two connections of the transcript store. Read may point
// to a replica; Write always targets the primary.
type Engines struct {
	Read  *gorm.DB
	Write *gorm.DB
}

// Open connects the read and write engines for the configured driver
func Open(cfg *config.Config) (*Engines, error) {
	if cfg.Database.Driver == "sqlite" {
		// a single file has no replica: both engines share one connection
		db, err := NewSQLiteDB(cfg.Database.SQLitePath, gormLogger(cfg))
		if err != nil {
			return nil, err
		}
		return &Engines{Read: db, Write: db}, nil
	}

	read, err := NewPostgresDB(cfg, cfg.GetReadDSN())
	if err != nil {
		return nil, fmt.Errorf("read engine: %w", err)
	}
	write, err := NewPostgresDB(cfg, cfg.GetWriteDSN())
	if err != nil {
		CloseDB(read)
		return nil, fmt.Errorf("write engine: %w", err)
	}
	return &Engines{Read: read, Write: write}, nil
}

// Close closes both engines
func (e *Engines) Close() {
	if e == nil {
		return
	}
	if e.Read != nil {
		CloseDB(e.Read)
	}
	if e.Write != nil && e.Write != e.Read {
		CloseDB(e.Write)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection using GORM
func NewPostgresDB(cfg *config.Config, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger(cfg),
		// timestamps are stored naive in business time, see pkg/localtime
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	return db, nil
}

// NewSQLiteDB opens a SQLite database, used for local development and tests
func NewSQLiteDB(path string, l logger.Interface) (*gorm.DB, error) {
	if l == nil {
		l = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: l})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	// sqlite serialises writers; one connection also keeps :memory: databases alive
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// AutoMigrate applies the embedded sql-migrate migrations on postgres. SQLite
// schemas are created from the GORM models instead, since the migrations use
// postgres types.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		return db.AutoMigrate(&entities.CallTranscription{}, &entities.PersistedSummary{})
	}

	log.Println("🔄 Applying embedded migrations using sql-migrate...")
	n, err := Migrate(db, migrate.Up, 0)
	if err != nil {
		return err
	}
	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// Migrate runs at most max migrations (0 = all) in the given direction
func Migrate(db *gorm.DB, direction migrate.MigrationDirection, max int) (int, error) {
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate, error: %v", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migration, error: %v", err)
	}
	return n, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}

func gormLogger(cfg *config.Config) logger.Interface {
	if cfg.IsProduction() {
		return logger.Default.LogMode(logger.Error)
	}
	return logger.Default.LogMode(logger.Info)
}
