package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/model"

	_ "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func dsn(cfg *config.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
}

// InitMySQL opens the primary (ORM) connection and migrates the schema.
func InitMySQL(cfg *config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to MySQL: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get underlying DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.BalanceRecord{},
		&model.OverduePaymentRecord{},
		&model.PortfolioType{},
		&model.OutboxMessage{},
	)
	if err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	DB = db
	log.Println("MySQL connected")
	return db
}

// InitDirectMySQL opens the secondary database/sql connection used by the
// row-by-row fallback path. It is deliberately a separate client with its
// own pool so a failure mode in the ORM path (driver state, prepared
// statements, transaction support) does not take the fallback down with it.
func InitDirectMySQL(cfg *config.MySQLConfig) *sql.DB {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		log.Fatalf("failed to open direct MySQL client: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping direct MySQL client: %v", err)
	}

	log.Println("direct MySQL client connected")
	return db
}
