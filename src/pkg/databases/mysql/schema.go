package mysql

import "github.com/jmoiron/sqlx"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       VARCHAR(64) PRIMARY KEY,
		city          VARCHAR(255) NULL,
		referrer_id   VARCHAR(64) NULL,
		referral_code VARCHAR(16) NOT NULL,
		balance       DECIMAL(12,2) NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL,
		UNIQUE KEY uq_users_referral_code (referral_code)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             BIGINT AUTO_INCREMENT PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		price_per_gram DECIMAL(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id     VARCHAR(16) PRIMARY KEY,
		user_id      VARCHAR(64) NOT NULL,
		referrer_id  VARCHAR(64) NULL,
		product_name VARCHAR(255) NOT NULL,
		unit_price   DECIMAL(12,2) NOT NULL,
		weight       DECIMAL(8,3) NOT NULL,
		total        DECIMAL(12,2) NOT NULL,
		city         VARCHAR(255) NOT NULL,
		status       VARCHAR(16) NOT NULL,
		created_at   DATETIME NOT NULL,
		processed_at DATETIME NULL,
		KEY idx_orders_user (user_id),
		KEY idx_orders_status (status)
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		user_id      VARCHAR(64) PRIMARY KEY,
		total_earned DECIMAL(12,2) NOT NULL DEFAULT 0,
		withdrawn    DECIMAL(12,2) NOT NULL DEFAULT 0,
		created_at   DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id           VARCHAR(36) PRIMARY KEY,
		user_id      VARCHAR(64) NOT NULL,
		amount       DECIMAL(12,2) NOT NULL,
		status       VARCHAR(16) NOT NULL,
		created_at   DATETIME NOT NULL,
		processed_at DATETIME NULL,
		KEY idx_withdrawals_user (user_id),
		KEY idx_withdrawals_status (status)
	)`,
}

func initSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
