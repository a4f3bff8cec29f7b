// Package jsondb implements the storage interface on top of a single JSON
// file. The whole dataset is kept in memory and flushed to disk on Close.
// A mutex guards the cache because the sweeper reads it concurrently with
// request handlers.
package jsondb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

// CacheStruct is the serialized shape of the database file.
type CacheStruct struct {
	Users        map[string]*user.User
	UsernameToID map[string]string
	Links        map[string]*models.Link
}

// JSONDB is a file-backed storage implementation. Transactions are no-ops;
// callers pass nil.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

// NewCache returns an empty, fully initialized cache.
func NewCache() CacheStruct {
	return CacheStruct{
		Users:        map[string]*user.User{},
		UsernameToID: map[string]string{},
		Links:        map[string]*models.Link{},
	}
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"UsernameToID": {},
	"Links": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cacheMap)
}

// NewInMemory returns a JSONDB with no backing file. The memory backend
// embeds it and overrides the file-bound methods.
func NewInMemory() *JSONDB {
	return &JSONDB{
		Cache: NewCache(),
	}
}

// New loads the database file, creating it when absent.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    NewCache(),
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(db.fileName, &db.Cache); err != nil {
			return nil, err
		}
	}

	return &db, nil
}

// CreateUser stores usr under a fresh UUID and indexes its username.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *usr
	stored.ID = uuid.New().String()
	db.Cache.Users[stored.ID] = &stored
	if stored.Username != "" {
		db.Cache.UsernameToID[stored.Username] = stored.ID
	}

	return stored.ID, nil
}

// GetUserByID returns the stored user, or a user with an empty ID field
// when none exists.
func (db *JSONDB) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	usr, found := db.Cache.Users[userID]
	if !found {
		return &user.User{ID: ""}, nil
	}
	copied := *usr

	return &copied, nil
}

// FindUserByUsername resolves a login name through the username index.
func (db *JSONDB) FindUserByUsername(
	ctx context.Context,
	username string,
	transaction *sql.Tx,
) (*user.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	userID, found := db.Cache.UsernameToID[username]
	if !found {
		return nil, false, nil
	}
	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, false, nil
	}
	copied := *usr

	return &copied, true, nil
}

// InsertLink stores the link under a fresh UUID and returns the ID.
func (db *JSONDB) InsertLink(ctx context.Context, link *models.Link, transaction *sql.Tx) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *link
	stored.ID = uuid.New().String()
	db.Cache.Links[stored.ID] = &stored

	return stored.ID, nil
}

// DeleteLinkByOwnerAndID removes the link when it exists and belongs to
// ownerID. Removing a foreign or unknown id is a no-op.
func (db *JSONDB) DeleteLinkByOwnerAndID(ctx context.Context, ownerID, linkID string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	link, found := db.Cache.Links[linkID]
	if !found || link.OwnerID != ownerID {
		return false, nil
	}
	delete(db.Cache.Links, linkID)

	return true, nil
}

// FindLinksByOwner lists every link owned by ownerID.
func (db *JSONDB) FindLinksByOwner(ctx context.Context, ownerID string) (models.UserLinks, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := models.UserLinks{}
	for _, link := range db.Cache.Links {
		if link.OwnerID == ownerID {
			result = append(result, *link)
		}
	}

	return result, nil
}

// FindLinkByOwnerAndURL looks up an owner's link with the exact URL.
func (db *JSONDB) FindLinkByOwnerAndURL(
	ctx context.Context,
	ownerID,
	url string,
	transaction *sql.Tx,
) (*models.Link, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, link := range db.Cache.Links {
		if link.OwnerID == ownerID && link.URL == url {
			copied := *link
			return &copied, true, nil
		}
	}

	return nil, false, nil
}

// CountLinksByOwner returns the number of links owned by ownerID.
func (db *JSONDB) CountLinksByOwner(ctx context.Context, ownerID string, transaction *sql.Tx) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	count := 0
	for _, link := range db.Cache.Links {
		if link.OwnerID == ownerID {
			count++
		}
	}

	return count, nil
}

// GetAllLinks returns every stored link, system-wide. The sweeper calls it
// once per tick.
func (db *JSONDB) GetAllLinks(ctx context.Context) (models.UserLinks, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(models.UserLinks, 0, len(db.Cache.Links))
	for _, link := range db.Cache.Links {
		result = append(result, *link)
	}

	return result, nil
}

// BeginTransaction is a no-op; the file backend has no transactions.
func (db *JSONDB) BeginTransaction() (*sql.Tx, error) {
	return nil, nil
}

// CommitTransaction is a no-op counterpart of BeginTransaction.
func (db *JSONDB) CommitTransaction(transaction *sql.Tx) error {
	return nil
}

// RollbackTransaction is a no-op counterpart of BeginTransaction.
func (db *JSONDB) RollbackTransaction(transaction *sql.Tx) error {
	return nil
}

// Ping always succeeds for the file backend.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the database file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}
