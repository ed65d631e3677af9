package migrator

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m04kA/SMC-AppointmentService/migrations"
)

var (
	// ErrInit не удалось подготовить мигратор
	ErrInit = errors.New("migrator: init failed")

	// ErrMigrate ошибка применения миграций
	ErrMigrate = errors.New("migrator: migration failed")
)

type Logger interface {
	Info(format string, v ...interface{})
}

// Migrator применяет встроенные SQL-миграции
type Migrator struct {
	m   *migrate.Migrate
	log Logger
}

func New(db *sql.DB, log Logger) (*Migrator, error) {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: db driver: %v", ErrInit, err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: source driver: %v", ErrInit, err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("%w: create migrator: %v", ErrInit, err)
	}

	return &Migrator{m: m, log: log}, nil
}

// Up применяет все новые миграции
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("Migrations: schema is up to date")
			return nil
		}
		return fmt.Errorf("%w: up: %v", ErrMigrate, err)
	}
	m.log.Info("Migrations: applied")
	return nil
}

// Down откатывает steps миграций
func (m *Migrator) Down(steps int) error {
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: down %d: %v", ErrMigrate, steps, err)
	}
	m.log.Info("Migrations: rolled back %d step(s)", steps)
	return nil
}

// Force помечает версию схемы без применения миграций (после ручного исправления dirty-состояния)
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("%w: force %d: %v", ErrMigrate, version, err)
	}
	m.log.Info("Migrations: forced version %d", version)
	return nil
}

// Version текущая версия схемы
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: version: %v", ErrMigrate, err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
