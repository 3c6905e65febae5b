package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "reactboard/db/tx"
	"reactboard/models"
)

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for users table
var usersColumns = []string{
	"id",
	"display_name",
	"discriminator",
	"created_at",
	"updated_at",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

// UpsertUser inserts the user or refreshes its name fields. Last write wins on
// display_name and discriminator; the row is never deleted.
func (r *PostgresUsersRepository) UpsertUser(
	ctx context.Context,
	id, displayName, discriminator string,
) (*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(usersColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, display_name, discriminator, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    discriminator = EXCLUDED.discriminator,
		    updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	user := &models.User{}
	err := db.QueryRowxContext(ctx, query, id, displayName, discriminator).StructScan(user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

func (r *PostgresUsersRepository) GetUserByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(usersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE id = $1`, returningStr, r.schema)

	user := &models.User{}
	err := db.GetContext(ctx, user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}

	return mo.Some(user), nil
}
