// Package postgresdb provides the PostgreSQL-backed implementation of the
// storage interface. It runs goose migrations at startup and supports
// transactional check-then-insert for link creation.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

// PostgresDB is a PostgreSQL-backed storage implementation.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset drops all public tables before running migrations.
// Intended for test setups.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New establishes a connection to the PostgreSQL database, runs schema
// migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil,
				fmt.Errorf(
					"in internal/db/postgresdb/postgresdb.go/New(): error while `result.resetDB()` calling: %w",
					err,
				)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	return result, nil
}

// CreateUser inserts a new user record and returns the generated ID.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id`,
		usr.Username,
		usr.PasswordHash,
		usr.IsAdmin,
	)
	var userIDFromDB string
	if err := row.Scan(&userIDFromDB); err != nil {
		return "", err
	}

	return userIDFromDB, nil
}

// GetUserByID fetches a user by UUID. If the user does not exist, it
// returns a user with an empty ID field.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	if userID == "" {
		return &user.User{ID: ""}, nil
	}

	row := database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, is_admin FROM users WHERE id = $1`,
		userID,
	)
	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash, &usr.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &user.User{ID: ""}, nil
		}
		return &user.User{ID: ""}, err
	}

	return usr, nil
}

// FindUserByUsername fetches a user by login name.
// Returns a boolean indicating presence and an error if applicable.
func (db *PostgresDB) FindUserByUsername(
	ctx context.Context,
	username string,
	transaction *sql.Tx,
) (*user.User, bool, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, is_admin FROM users WHERE username = $1`,
		username,
	)
	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash, &usr.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return usr, true, nil
}

// InsertLink inserts a new link row and returns the generated ID.
func (db *PostgresDB) InsertLink(ctx context.Context, link *models.Link, transaction *sql.Tx) (string, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`INSERT INTO links (owner_id, url, last_ping_ms) VALUES ($1, $2, $3) RETURNING id`,
		link.OwnerID,
		link.URL,
		link.LastPingMs,
	)
	var linkIDFromDB string
	if err := row.Scan(&linkIDFromDB); err != nil {
		return "", err
	}

	return linkIDFromDB, nil
}

// DeleteLinkByOwnerAndID removes the owner's link. Deleting an unknown or
// foreign id affects zero rows and is not an error.
func (db *PostgresDB) DeleteLinkByOwnerAndID(ctx context.Context, ownerID, linkID string) (bool, error) {
	result, err := db.database.ExecContext(
		ctx,
		`DELETE FROM links WHERE id = $1 AND owner_id = $2`,
		linkID,
		ownerID,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// FindLinksByOwner retrieves every link owned by the given user.
func (db *PostgresDB) FindLinksByOwner(ctx context.Context, ownerID string) (models.UserLinks, error) {
	return db.queryLinks(
		ctx,
		db.database,
		`SELECT id, owner_id, url, last_ping_ms FROM links WHERE owner_id = $1`,
		ownerID,
	)
}

// FindLinkByOwnerAndURL looks up an owner's link with the exact URL.
func (db *PostgresDB) FindLinkByOwnerAndURL(
	ctx context.Context,
	ownerID,
	url string,
	transaction *sql.Tx,
) (*models.Link, bool, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`SELECT id, owner_id, url, last_ping_ms FROM links WHERE owner_id = $1 AND url = $2`,
		ownerID,
		url,
	)
	link := &models.Link{}
	err := row.Scan(&link.ID, &link.OwnerID, &link.URL, &link.LastPingMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return link, true, nil
}

// CountLinksByOwner returns the number of links owned by the given user.
func (db *PostgresDB) CountLinksByOwner(ctx context.Context, ownerID string, transaction *sql.Tx) (int, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM links WHERE owner_id = $1`,
		ownerID,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// GetAllLinks retrieves every stored link, system-wide, for the sweeper.
func (db *PostgresDB) GetAllLinks(ctx context.Context) (models.UserLinks, error) {
	return db.queryLinks(
		ctx,
		db.database,
		`SELECT id, owner_id, url, last_ping_ms FROM links`,
	)
}

func (db *PostgresDB) queryLinks(
	ctx context.Context,
	database queryer,
	query string,
	args ...interface{},
) (models.UserLinks, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := models.UserLinks{}
	for rows.Next() {
		link := models.Link{}
		if err := rows.Scan(&link.ID, &link.OwnerID, &link.URL, &link.LastPingMs); err != nil {
			return nil, err
		}
		result = append(result, link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// BeginTransaction starts a new SQL transaction and returns it.
// The caller is responsible for committing or rolling it back.
func (db *PostgresDB) BeginTransaction() (*sql.Tx, error) {
	return db.database.Begin()
}

// CommitTransaction commits the given SQL transaction.
func (db *PostgresDB) CommitTransaction(transaction *sql.Tx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred while committing transaction: %v", r)
		}
	}()

	return transaction.Commit()
}

// RollbackTransaction rolls back the given SQL transaction.
func (db *PostgresDB) RollbackTransaction(transaction *sql.Tx) error {
	return transaction.Rollback()
}

// Ping verifies connectivity with the database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}
