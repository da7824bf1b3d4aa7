package mysql

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"shop-service/src/pkg/log"
)

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
}

type database struct {
	db *sqlx.DB
}

func (d *database) GetDB() (*sqlx.DB, error) {
	if d.db == nil {
		return nil, errors.New("database connection is not initialized")
	}
	return d.db, nil
}

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		v.GetString("mysql.username"),
		v.GetString("mysql.password"),
		v.GetString("mysql.host"),
		v.GetInt("mysql.port"),
		v.GetString("mysql.database"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql", fmt.Sprintf("failed to connect: %v", err), "InitConnection", "")
		return nil, err
	}

	db.SetMaxOpenConns(v.GetInt("mysql.max_open_conns"))
	db.SetMaxIdleConns(v.GetInt("mysql.max_idle_conns"))
	db.SetConnMaxLifetime(time.Duration(v.GetInt("mysql.conn_max_lifetime_minutes")) * time.Minute)

	if err := initSchema(db); err != nil {
		logger.Error("mysql", fmt.Sprintf("failed to init schema: %v", err), "InitConnection", "")
		return nil, err
	}

	return &database{db: db}, nil
}
