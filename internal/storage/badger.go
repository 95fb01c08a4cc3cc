package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// BadgerStore implements Store using BadgerDB.
type BadgerStore struct {
	db       *badger.DB
	inMemory bool
	log      logrus.FieldLogger
}

// NewBadgerStore opens the database described by opts.
func NewBadgerStore(opts BadgerOptions, logger logrus.FieldLogger) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Route Badger's internal logging through logrus
	bopts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(bopts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", opts.Path, err)
	}
	logger.WithFields(logrus.Fields{
		"path":      opts.Path,
		"in_memory": opts.InMemory,
	}).Info("BadgerDB opened")

	return &BadgerStore{
		db:       db,
		inMemory: opts.InMemory,
		log:      logger.WithField("component", "badger_store"),
	}, nil
}

// Close closes the BadgerDB database.
func (s *BadgerStore) Close() error {
	s.log.Info("Closing BadgerDB...")
	if err := s.db.Close(); err != nil {
		s.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	s.log.Info("BadgerDB closed.")
	return nil
}

func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		// The slice handed to Value is only valid inside the transaction
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to read key from BadgerDB")
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value))
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to write key to BadgerDB")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	s.log.WithFields(logrus.Fields{
		"key":   key,
		"bytes": len(value),
	}).Debug("Value written")
	return nil
}

// RunGC periodically reclaims value-log space until ctx is cancelled. Every
// Set rewrites the whole blob, so the value log grows quickly without it.
func (s *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	if s.inMemory || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.collectGarbage()
		case <-ctx.Done():
			s.log.Info("Stopping BadgerDB GC routine")
			return
		}
	}
}

func (s *BadgerStore) collectGarbage() {
	// Keep rewriting until Badger reports there is nothing left to reclaim
	for {
		err := s.db.RunValueLogGC(0.7)
		switch {
		case err == nil:
			s.log.Debug("BadgerDB GC rewrote a value log file")
			continue
		case errors.Is(err, badger.ErrNoRewrite):
			s.log.Debug("BadgerDB GC: no rewrite needed")
		default:
			s.log.WithError(err).Error("BadgerDB GC failed")
		}
		return
	}
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
