package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-network/datamigrate/testhelper"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger(t *testing.T) {
	testLogger := testhelper.NewTestLogger(true)
	gormLogger := NewGormLogger(testLogger, 200*time.Millisecond)

	t.Run("Info Logging", func(t *testing.T) {
		gormLogger.Info(context.Background(), "test info message")
		messages := testLogger.GetInfoMessages()
		if len(messages) == 0 {
			t.Fatal("Expected info message to be logged")
		}
		if messages[len(messages)-1].Message != "test info message" {
			t.Errorf("Expected message 'test info message', got '%s'", messages[len(messages)-1].Message)
		}
	})

	t.Run("Warn Logging", func(t *testing.T) {
		gormLogger.Warn(context.Background(), "test warn message")
		messages := testLogger.GetWarnMessages()
		if len(messages) == 0 {
			t.Fatal("Expected warning message to be logged")
		}
		if messages[len(messages)-1].Message != "test warn message" {
			t.Errorf("Expected message 'test warn message', got '%s'", messages[len(messages)-1].Message)
		}
	})

	t.Run("Error Logging", func(t *testing.T) {
		gormLogger.Error(context.Background(), "test error message")
		messages := testLogger.GetErrorMessages()
		if len(messages) == 0 {
			t.Fatal("Expected error message to be logged")
		}
		if messages[len(messages)-1].Message != "GORM error" {
			t.Errorf("Expected message 'GORM error', got '%s'", messages[len(messages)-1].Message)
		}
	})

	t.Run("Trace Normal Query", func(t *testing.T) {
		testLogger.ClearMessages()
		fc := func() (string, int64) {
			return "SELECT * FROM data_migrations", 10
		}

		gormLogger.Trace(context.Background(), time.Now(), fc, nil)
		messages := testLogger.GetDebugMessages()
		if len(messages) == 0 {
			t.Fatal("Expected debug message for normal query")
		}

		lastMsg := messages[len(messages)-1]
		if lastMsg.Fields["sql"] != "SELECT * FROM data_migrations" {
			t.Errorf("Expected SQL query in fields, got %v", lastMsg.Fields["sql"])
		}
		if lastMsg.Fields["rows_affected"] != int64(10) {
			t.Errorf("Expected 10 rows affected, got %v", lastMsg.Fields["rows_affected"])
		}
	})

	t.Run("Trace Slow Query", func(t *testing.T) {
		testLogger.ClearMessages()
		begin := time.Now().Add(-300 * time.Millisecond)
		fc := func() (string, int64) {
			return "SELECT * FROM report_dashboardcard", 1000
		}

		gormLogger.Trace(context.Background(), begin, fc, nil)
		messages := testLogger.GetWarnMessages()
		if len(messages) == 0 {
			t.Fatal("Expected warning message for slow query")
		}

		lastMsg := messages[len(messages)-1]
		if lastMsg.Fields["rows_affected"] != int64(1000) {
			t.Errorf("Expected 1000 rows affected, got %v", lastMsg.Fields["rows_affected"])
		}
	})

	t.Run("Trace Query Error", func(t *testing.T) {
		testLogger.ClearMessages()
		fc := func() (string, int64) {
			return "SELECT * FROM nonexistent_table", 0
		}

		gormLogger.Trace(context.Background(), time.Now(), fc, errors.New("table does not exist"))
		messages := testLogger.GetErrorMessages()
		if len(messages) == 0 {
			t.Fatal("Expected error message for failed query")
		}

		lastMsg := messages[len(messages)-1]
		if lastMsg.Fields["sql"] != "SELECT * FROM nonexistent_table" {
			t.Errorf("Expected SQL query in fields, got %v", lastMsg.Fields["sql"])
		}
		if lastMsg.Fields["error"] != "table does not exist" {
			t.Errorf("Expected error message in fields, got %v", lastMsg.Fields["error"])
		}
	})

	t.Run("Skip Record Not Found Error", func(t *testing.T) {
		testLogger.ClearMessages()
		fc := func() (string, int64) {
			return "SELECT * FROM setting WHERE key = 'x'", 0
		}

		gormLogger.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
		if len(testLogger.GetErrorMessages()) > 0 {
			t.Error("Expected no error message for record not found")
		}
	})

	t.Run("Silent Mode", func(t *testing.T) {
		testLogger.ClearMessages()
		silent := gormLogger.LogMode(gormlogger.Silent)
		fc := func() (string, int64) {
			return "SELECT 1", 1
		}

		silent.Trace(context.Background(), time.Now(), fc, errors.New("ignored"))
		silent.Info(context.Background(), "ignored")
		if len(testLogger.GetErrorMessages())+len(testLogger.GetInfoMessages())+len(testLogger.GetDebugMessages()) > 0 {
			t.Error("Expected silent mode to suppress all output")
		}
	})
}
