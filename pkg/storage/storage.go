// Package storage keeps a shot history in a SQL database.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/itohio/goetarget/pkg/report"
	"github.com/itohio/goetarget/pkg/shot"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MemoryDSN is an in-memory SQLite database.
const MemoryDSN = "file::memory:?cache=shared"

var ErrUnknownDriver = errors.New("unknown storage driver")

// Config selects the database.
type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Shot is one stored shot.
type Shot struct {
	ID          uint      `gorm:"primarykey"`
	CreatedAt   time.Time `gorm:"index"`
	SessionID   string    `gorm:"size:36;index"`
	Target      string    `gorm:"size:64"`
	Number      uint64
	SessionTime time.Duration
	Miss        bool
	Reason      string `gorm:"size:16"`
	X           float64
	Y           float64
	RealX       float64
	RealY       float64
	Radius      float64
	Angle       float64
	Score       float32
	Reference   string `gorm:"size:1"`
	Iterations  int
	FaceStrikes int
	Mask        string `gorm:"size:4"`
	Counts      datatypes.JSON
}

// Counts is the JSON payload of Shot.Counts.
type Counts struct {
	Raw       [4]uint32  `json:"raw"`
	Corrected [4]float64 `json:"corrected"`
}

// Store records shots for one session.
type Store struct {
	db      *gorm.DB
	session uuid.UUID
	target  string
	log     zerolog.Logger
}

var _ report.Reporter = (*Store)(nil)

// Open connects to the configured database and migrates the schema.
func Open(cfg Config, target string, log zerolog.Logger) (*Store, error) {
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = MemoryDSN
		}
		db, err = gorm.Open(sqlite.Open(dsn), gcfg)
	case DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gcfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	return New(db, target, log)
}

// New uses an open database. A new session id is generated.
func New(db *gorm.DB, target string, log zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Shot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate shots: %w", err)
	}

	s := &Store{
		db:      db,
		session: uuid.New(),
		target:  target,
		log:     log,
	}
	log.Info().Str("session", s.session.String()).Str("driver", db.Dialector.Name()).Msg("Shot storage ready")
	return s, nil
}

// Session returns the id shots are stored under.
func (s *Store) Session() uuid.UUID {
	return s.session
}

// Report stores one shot.
func (s *Store) Report(ctx context.Context, rec shot.Record, res shot.Result) error {
	row, err := s.row(rec, res)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store shot %d: %w", rec.Number, err)
	}
	s.log.Debug().Uint64("shot", rec.Number).Uint("id", row.ID).Msg("Shot stored")
	return nil
}

func (s *Store) row(rec shot.Record, res shot.Result) (Shot, error) {
	counts, err := json.Marshal(Counts{Raw: rec.RawCounts, Corrected: res.Counts})
	if err != nil {
		return Shot{}, fmt.Errorf("failed to encode counts: %w", err)
	}

	row := Shot{
		SessionID:   s.session.String(),
		Target:      s.target,
		Number:      rec.Number,
		SessionTime: rec.Time,
		Miss:        res.IsMiss(),
		FaceStrikes: rec.FaceStrikes,
		Mask:        rec.LatchMask.String(),
		Counts:      datatypes.JSON(counts),
	}
	if res.IsMiss() {
		row.Reason = res.Reason.String()
		return row, nil
	}

	row.X = rec.ResultX
	row.Y = rec.ResultY
	row.RealX = rec.RealX
	row.RealY = rec.RealY
	row.Radius = rec.Radius
	row.Angle = rec.Angle
	row.Score = rec.Score
	row.Reference = res.Reference.String()
	row.Iterations = res.Iterations
	return row, nil
}

// Recent returns up to n shots of the current session, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Shot, error) {
	var shots []Shot
	err := s.db.WithContext(ctx).
		Where("session_id = ?", s.session.String()).
		Order("id DESC").
		Limit(n).
		Find(&shots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shots: %w", err)
	}
	return shots, nil
}

// DecodeCounts returns the counters stored with a shot.
func (sh Shot) DecodeCounts() (Counts, error) {
	var c Counts
	if err := json.Unmarshal(sh.Counts, &c); err != nil {
		return c, fmt.Errorf("failed to decode counts: %w", err)
	}
	return c, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
