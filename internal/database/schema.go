package database

import (
	"context"
	"fmt"
	"log"

	"github.com/gocql/gocql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id text PRIMARY KEY,
		name text,
		brand text,
		price double,
		image text,
		gender text,
		notes list<text>,
		description text,
		ingredients list<text>,
		category text,
		size text,
		featured boolean,
		new_arrival boolean,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id text PRIMARY KEY,
		email text,
		password text,
		name text,
		provider text,
		provider_id text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id text
	)`,
	`CREATE TABLE IF NOT EXISTS user_addresses (
		user_id text PRIMARY KEY,
		full_name text,
		address_line1 text,
		address_line2 text,
		city text,
		state text,
		postal_code text,
		country text,
		phone text,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS admin_emails (
		email text PRIMARY KEY,
		added_by text,
		added_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		user_id text,
		created_at timestamp,
		order_id text,
		email text,
		items text,
		total double,
		status text,
		payment_id text,
		address text,
		PRIMARY KEY (user_id, created_at, order_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, order_id ASC)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		user_id text,
		user_email text,
		action text,
		resource text,
		resource_id text,
		ip_address text,
		user_agent text,
		success boolean,
		error_msg text,
		timestamp timestamp
	)`,
}

// EnsureSchema creates the tables used by the storefront when missing.
func EnsureSchema(ctx context.Context, session *gocql.Session) error {
	for _, stmt := range schema {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("create table: %w", translate(err))
		}
	}
	log.Println("✅ ScyllaDB schema ready")
	return nil
}
