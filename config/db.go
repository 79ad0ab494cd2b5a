package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"airline-backoffice/models"
)

type DBConfig struct {
	Driver          string // mysql, postgres or sqlite
	DSN             string
	Name            string
	LogLevel        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes
}

func LoadDBConfig() DBConfig {
	cfg := DBConfig{
		Driver:          strings.ToLower(envOrDefault("DB_DRIVER", "mysql")),
		LogLevel:        envOrDefault("DB_LOG_LEVEL", "warn"),
		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifeTime: envInt("DB_CONN_MAX_LIFETIME_MIN", 30),
	}
	return cfg
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "airline_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}

func resolvePostgresDSN() string {
	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		return raw
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		envOrDefault("DB_HOST", "127.0.0.1"),
		envOrDefault("DB_USER", "airline"),
		os.Getenv("DB_PASS"),
		envOrDefault("DB_NAME", "airline_db"),
		envOrDefault("DB_PORT", "5432"),
		envOrDefault("DB_SSLMODE", "disable"),
	)
}

// ResolveDSN fills DSN and Name from the environment for the configured driver.
func (c *DBConfig) ResolveDSN() error {
	if c.DSN != "" {
		return nil
	}
	switch c.Driver {
	case "mysql":
		dsn, name, err := resolveMySQLDSN()
		if err != nil {
			return err
		}
		c.DSN, c.Name = dsn, name
	case "postgres":
		c.DSN = resolvePostgresDSN()
		c.Name = envOrDefault("DB_NAME", "airline_db")
	case "sqlite":
		c.DSN = envOrDefault("SQLITE_PATH", "airline.db")
		c.Name = c.DSN
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// OpenDatabase opens a gorm connection for cfg and tunes the pool.
// SQL statements are logged through log.
func OpenDatabase(cfg DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	if err := cfg.ResolveDSN(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if log != nil {
		gormCfg.Logger = logger.New(log, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifeTime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeTime) * time.Minute)
	}

	return db, nil
}

// ConnectDatabase opens the database and migrates every model.
func ConnectDatabase(cfg DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	db, err := OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
