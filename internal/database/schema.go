package database

import (
	"context"
	"database/sql"
)

// schema lists the DDL for every table, in dependency order.  Each
// statement is idempotent (CREATE TABLE IF NOT EXISTS) so EnsureSchema
// can run on every startup, the same way the room seeder does.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(100) NOT NULL DEFAULT '',
		role          VARCHAR(20)  NOT NULL DEFAULT 'ADMIN',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		room_number           VARCHAR(10) NOT NULL,
		floor                 INT UNSIGNED NOT NULL,
		capacity              INT UNSIGNED NOT NULL,
		rent                  BIGINT NOT NULL,
		has_attached_washroom TINYINT(1) NOT NULL DEFAULT 0,
		created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_rooms_number (room_number),
		KEY idx_rooms_floor (floor)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS residents (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		full_name        VARCHAR(100) NOT NULL,
		contact_number   VARCHAR(15)  NOT NULL,
		email            VARCHAR(255) NULL,
		guardian_name    VARCHAR(100) NULL,
		guardian_contact VARCHAR(15)  NULL,
		identity_number  VARCHAR(50)  NULL,
		occupation       VARCHAR(100) NULL,
		room_id          BIGINT UNSIGNED NULL,
		total_rent       BIGINT NOT NULL DEFAULT 0,
		paid_amount      BIGINT NOT NULL DEFAULT 0,
		is_active        TINYINT(1) NOT NULL DEFAULT 1,
		payment_status   VARCHAR(20) NOT NULL DEFAULT 'Unpaid',
		joined_date      DATE NOT NULL DEFAULT (CURRENT_DATE),
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_residents_room (room_id, is_active),
		KEY idx_residents_name (full_name),
		CONSTRAINT fk_residents_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		resident_id BIGINT UNSIGNED NOT NULL,
		amount      BIGINT NOT NULL,
		paid_on     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		note        TEXT NULL,
		receipt_ref CHAR(36) NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_payments_receipt (receipt_ref),
		KEY idx_payments_resident (resident_id),
		CONSTRAINT fk_payments_resident FOREIGN KEY (resident_id) REFERENCES residents (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  Rooms are referenced by
// residents with ON DELETE SET NULL: deleting a room never cascades to
// the people who lived in it, it only clears their room link.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
