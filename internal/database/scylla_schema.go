package database

import (
	"fmt"

	"github.com/gocql/gocql"
)

var auditTables = []string{
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid,
		user_id text,
		user_email text,
		action text,
		resource text,
		resource_id text,
		new_value text,
		ip_address text,
		user_agent text,
		timestamp timestamp,
		PRIMARY KEY ((resource), timestamp, id)
	) WITH CLUSTERING ORDER BY (timestamp DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id timeuuid,
		product_id bigint,
		type text,
		quantity int,
		order_id bigint,
		user_id text,
		created_at timestamp,
		PRIMARY KEY ((product_id), created_at, id)
	) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`,
}

// EnsureAuditTables crée les tables d'audit si besoin (le keyspace doit exister).
func EnsureAuditTables(session *gocql.Session) error {
	for _, stmt := range auditTables {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("erreur création table d'audit: %w", err)
		}
	}
	return nil
}
