package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/sirupsen/logrus"

	// need to import the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

var log = logrus.WithField("component", "store")

const (
	createBlockTableSQL = `CREATE TABLE IF NOT EXISTS block (
		"Idx" INTEGER PRIMARY KEY,
		"Section" INTEGER,
		"StreamOffset" INTEGER,
		"Type" TEXT,
		"Length" INTEGER,
		"Options" TEXT
	  );`

	createPacketTableSQL = `CREATE TABLE IF NOT EXISTS packet (
		"Idx" INTEGER PRIMARY KEY,
		"Interface" INTEGER,
		"Timestamp" TIMESTAMP,
		"CapLen" INTEGER,
		"Len" INTEGER,
		"Proto" TEXT,
		"SrcAddr" TEXT,
		"DstAddr" TEXT,
		"SrcPort" INTEGER,
		"DstPort" INTEGER,
		"Comments" TEXT
	  );`

	insertBlockSQL  = `INSERT INTO block(Idx, Section, StreamOffset, Type, Length, Options) VALUES (?, ?, ?, ?, ?, ?)`
	insertPacketSQL = `INSERT INTO packet(Idx, Interface, Timestamp, CapLen, Len, Proto, SrcAddr, DstAddr, SrcPort, DstPort, Comments) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// Store exports the records of a capture into a SQLite file.
type Store struct {
	db           *sql.DB
	insertBlock  *sql.Stmt
	insertPacket *sql.Stmt
}

// Create truncates or creates the SQLite file at path and its tables.
func Create(path string) (*Store, error) {
	log.Debugf("Creating database %s...", path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create db file: %w", err)
	}
	file.Close()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	s, err := initStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("database created")
	return s, nil
}

func initStore(db *sql.DB) (*Store, error) {
	for _, stmt := range []string{createBlockTableSQL, createPacketTableSQL} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("error creating table: %w", err)
		}
	}

	s := &Store{db: db}
	var err error
	if s.insertBlock, err = db.Prepare(insertBlockSQL); err != nil {
		return nil, fmt.Errorf("error preparing SQL: %w", err)
	}
	if s.insertPacket, err = db.Prepare(insertPacketSQL); err != nil {
		return nil, fmt.Errorf("error preparing SQL: %w", err)
	}
	return s, nil
}

// InsertBlock stores a row for any block, options rendered as "name=value" lines.
func (s *Store) InsertBlock(rec *capture.Record) error {
	var options []string
	for _, o := range pcapng.OptionsOf(rec.Block) {
		name, value := capture.DescribeOption(o)
		options = append(options, name+"="+value)
	}
	_, err := s.insertBlock.Exec(rec.Index, rec.Section, rec.Offset, rec.Block.BlockType().String(), rec.Length, strings.Join(options, "\n"))
	if err != nil {
		return fmt.Errorf("error inserting block %d into database: %w", rec.Index, err)
	}
	return nil
}

// InsertPacket stores the packet of an enhanced packet record, it does nothing for other records.
func (s *Store) InsertPacket(rec *capture.Record) error {
	p := rec.Packet
	if p == nil {
		return nil
	}
	_, err := s.insertPacket.Exec(
		rec.Index, p.Interface, p.Timestamp.Format(time.RFC3339Nano), p.CapturedLen, p.Len,
		p.Summary.Protocol, p.Summary.Src, p.Summary.Dst, p.Summary.SrcPort, p.Summary.DstPort,
		strings.Join(p.Comments, "\n"))
	if err != nil {
		return fmt.Errorf("error inserting packet %d into database: %w", rec.Index, err)
	}
	return nil
}

// Insert stores the block row and, for packets, the packet row.
func (s *Store) Insert(rec *capture.Record) error {
	if err := s.InsertBlock(rec); err != nil {
		return err
	}
	return s.InsertPacket(rec)
}

// Query runs query and returns its first column as strings.
func (s *Store) Query(query string) ([]string, error) {
	return queryDB(s.db, query)
}

func (s *Store) Close() error {
	s.insertBlock.Close()
	s.insertPacket.Close()
	return s.db.Close()
}

// QueryFile runs query against an existing export.
func QueryFile(query, fileName string) ([]string, error) {
	db, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	return queryDB(db, query)
}

func queryDB(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var value sql.NullString
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, value.String)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
