package stats

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunRow is one simulation run in the results database.
type RunRow struct {
	ID           string `gorm:"primaryKey"`
	Scenario     string
	Architecture string
	Policy       string
	Devices      int
	Seed         uint64
	Status       string
	StartedAt    time.Time
	EndedAt      *time.Time
}

// TaskRow is one task record in the results database.
type TaskRow struct {
	ID            uint   `gorm:"primaryKey"`
	RunID         string `gorm:"index"`
	TaskID        int
	DeviceID      int
	App           string
	Tier          string
	InputKB       float64
	OutputKB      float64
	LengthMI      float64
	CreatedAt     float64
	UploadDelay   float64
	ExecDelay     float64
	DownloadDelay float64
	EndToEnd      float64
	Outcome       string
}

const sqliteBatchSize = 256

// RunMeta describes the run a SQLite sink belongs to.
type RunMeta struct {
	Scenario     string
	Architecture string
	Policy       string
	Devices      int
	Seed         uint64
}

// SQLiteSink persists records to a SQLite file so sweeps across seeds and
// policies can be queried afterwards. Records are batched; Close flushes
// the remainder and marks the run completed.
type SQLiteSink struct {
	db     *gorm.DB
	runID  string
	buffer []TaskRow
}

// NewSQLiteSink opens (or creates) the results database, migrates the
// schema and registers a new run. The returned run id ties task rows to
// their run.
func NewSQLiteSink(path string, meta RunMeta) (*SQLiteSink, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	if err := db.AutoMigrate(&RunRow{}, &TaskRow{}); err != nil {
		return nil, fmt.Errorf("migrate results schema: %w", err)
	}

	run := RunRow{
		ID:           uuid.New().String(),
		Scenario:     meta.Scenario,
		Architecture: meta.Architecture,
		Policy:       meta.Policy,
		Devices:      meta.Devices,
		Seed:         meta.Seed,
		Status:       "running",
		StartedAt:    time.Now(),
	}
	if err := db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("register run: %w", err)
	}

	return &SQLiteSink{
		db:     db,
		runID:  run.ID,
		buffer: make([]TaskRow, 0, sqliteBatchSize),
	}, nil
}

// RunID returns the id task rows are written under.
func (s *SQLiteSink) RunID() string { return s.runID }

func (s *SQLiteSink) Record(rec *TaskRecord) error {
	s.buffer = append(s.buffer, TaskRow{
		RunID:         s.runID,
		TaskID:        rec.TaskID,
		DeviceID:      rec.DeviceID,
		App:           rec.App,
		Tier:          rec.Tier,
		InputKB:       rec.InputKB,
		OutputKB:      rec.OutputKB,
		LengthMI:      rec.LengthMI,
		CreatedAt:     rec.CreatedAt,
		UploadDelay:   rec.UploadDelay,
		ExecDelay:     rec.ExecDelay,
		DownloadDelay: rec.DownloadDelay,
		EndToEnd:      rec.EndToEnd(),
		Outcome:       string(rec.Outcome),
	})
	if len(s.buffer) >= sqliteBatchSize {
		return s.flush()
	}
	return nil
}

func (s *SQLiteSink) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}
	if err := s.db.Create(&s.buffer).Error; err != nil {
		return fmt.Errorf("save task records: %w", err)
	}
	s.buffer = s.buffer[:0]
	return nil
}

// Close flushes buffered rows, marks the run completed and releases the
// database handle.
func (s *SQLiteSink) Close() error {
	if err := s.flush(); err != nil {
		return err
	}
	now := time.Now()
	if err := s.db.Model(&RunRow{}).Where("id = ?", s.runID).
		Updates(map[string]interface{}{"status": "completed", "ended_at": &now}).Error; err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
