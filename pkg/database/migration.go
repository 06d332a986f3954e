package database

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	migratedriver "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool {
	return true
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// Migrate applies all pending migrations over the given connection.
func Migrate(logger ectologger.Logger, folderPath, databaseName string, db DB) error {
	instance, ok := db.(*DatabaseInstance)
	if !ok {
		return fmt.Errorf("migrations require a direct database connection")
	}

	driver, err := migratepg.WithInstance(instance.DB.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	return NewMigrationService(logger, folderPath).Migrate(databaseName, driver)
}

type MigrationService struct {
	folderPath string
	logger     ectologger.Logger
}

func NewMigrationService(logger ectologger.Logger, folderPath string) *MigrationService {
	return &MigrationService{
		folderPath: folderPath,
		logger:     logger,
	}
}

func (ms *MigrationService) resolveMigrationFolder() string {
	if _, err := os.Stat(ms.folderPath); err == nil {
		return ms.folderPath
	}
	workingDirectory, _ := os.Getwd()
	return workingDirectory + "/" + ms.folderPath
}

// Migrate applies all pending up migrations. Runs under the elevated role
// since schema changes require it.
func (ms *MigrationService) Migrate(databaseName string, databaseInstance migratedriver.Driver) error {
	migrationFolder := ms.resolveMigrationFolder()
	if _, err := os.Stat(migrationFolder); err != nil {
		return fmt.Errorf("migration folder %s does not exist: %w", migrationFolder, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationFolder, databaseName, databaseInstance)
	if err != nil {
		ms.logger.WithError(err).Error("failed to create migrate instance")
		return err
	}

	m.Log = MigrationLogger{Logger: ms.logger}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		ms.logger.WithError(err).Error("database migration failed")
		return err
	}

	if err == migrate.ErrNoChange {
		ms.logger.Info("No new migrations to apply")
	} else {
		ms.logger.Info("Successfully applied migrations")
	}

	return nil
}
