// Package store reads catalog snapshots from Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/model"
)

type Store struct{ Pool *pgxpool.Pool }

func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.Pool.Ping(ctx) }

func (s *Store) Close() { s.Pool.Close() }

// Migrate creates the catalog tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS managers (
            id         TEXT PRIMARY KEY,
            name       TEXT NOT NULL,
            email      TEXT NOT NULL DEFAULT '',
            phone      TEXT NOT NULL DEFAULT '',
            position   SERIAL
        );`,
		`CREATE TABLE IF NOT EXISTS properties (
            id              TEXT PRIMARY KEY,
            name            TEXT NOT NULL,
            street          TEXT NOT NULL,
            city            TEXT NOT NULL,
            state           TEXT NOT NULL,
            zip             TEXT NOT NULL,
            lat             DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng             DOUBLE PRECISION NOT NULL DEFAULT 0,
            property_type   TEXT NOT NULL,
            status          TEXT NOT NULL,
            total_units     INTEGER NOT NULL,
            occupied_units  INTEGER NOT NULL,
            images          TEXT[] NOT NULL DEFAULT '{}',
            amenities       TEXT[] NOT NULL DEFAULT '{}',
            manager_id      TEXT,
            position        SERIAL,
            CHECK (occupied_units >= 0 AND occupied_units <= total_units)
        );`,
		`CREATE TABLE IF NOT EXISTS units (
            id           TEXT PRIMARY KEY,
            property_id  TEXT NOT NULL,
            number       TEXT NOT NULL,
            bedrooms     INTEGER NOT NULL DEFAULT 0,
            bathrooms    DOUBLE PRECISION NOT NULL DEFAULT 0,
            rent         DOUBLE PRECISION NOT NULL DEFAULT 0,
            position     SERIAL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_units_property ON units(property_id);`,
		`CREATE TABLE IF NOT EXISTS tenants (
            id                 TEXT PRIMARY KEY,
            first_name         TEXT NOT NULL,
            last_name          TEXT NOT NULL,
            email              TEXT NOT NULL,
            phone              TEXT NOT NULL,
            active             BOOLEAN NOT NULL DEFAULT true,
            unit_id            TEXT,
            emergency_contact  JSONB,
            move_in_date       TEXT NOT NULL DEFAULT '',
            position           SERIAL
        );`,
		`CREATE TABLE IF NOT EXISTS vendors (
            id            TEXT PRIMARY KEY,
            name          TEXT NOT NULL,
            contact_name  TEXT NOT NULL DEFAULT '',
            email         TEXT NOT NULL,
            phone         TEXT NOT NULL,
            specialties   TEXT[] NOT NULL DEFAULT '{}',
            rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_jobs    INTEGER NOT NULL DEFAULT 0,
            active        BOOLEAN NOT NULL DEFAULT true,
            position      SERIAL
        );`,
	}
	for _, q := range stmts {
		if _, err := s.Pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every table inside one read-only transaction so the snapshot
// is consistent, then validates it. Rows keep their insertion order.
func (s *Store) Load(ctx context.Context) (*catalog.Snapshot, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var snap catalog.Snapshot
	if snap.Managers, err = query(ctx, tx, `SELECT id, name, email, phone FROM managers ORDER BY position`, scanManager); err != nil {
		return nil, fmt.Errorf("load managers: %w", err)
	}
	if snap.Properties, err = query(ctx, tx, `SELECT id, name, street, city, state, zip, lat, lng, property_type, status,
            total_units, occupied_units, images, amenities, manager_id FROM properties ORDER BY position`, scanProperty); err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	if snap.Units, err = query(ctx, tx, `SELECT id, property_id, number, bedrooms, bathrooms, rent FROM units ORDER BY position`, scanUnit); err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	if snap.Tenants, err = query(ctx, tx, `SELECT id, first_name, last_name, email, phone, active, unit_id,
            emergency_contact, move_in_date FROM tenants ORDER BY position`, scanTenant); err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}
	if snap.Vendors, err = query(ctx, tx, `SELECT id, name, contact_name, email, phone, specialties, rating,
            total_jobs, active FROM vendors ORDER BY position`, scanVendor); err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func query[T any](ctx context.Context, tx pgx.Tx, sql string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := tx.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scan)
}

func scanManager(row pgx.CollectableRow) (model.Manager, error) {
	var m model.Manager
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone)
	return m, err
}

func scanProperty(row pgx.CollectableRow) (model.Property, error) {
	var (
		p       model.Property
		manager *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Address.Street, &p.Address.City, &p.Address.State, &p.Address.Zip,
		&p.Coordinates.Lat, &p.Coordinates.Lng, &p.Type, &p.Status, &p.TotalUnits, &p.OccupiedUnits,
		&p.Images, &p.Amenities, &manager)
	if manager != nil {
		p.ManagerID = *manager
	}
	return p, err
}

func scanUnit(row pgx.CollectableRow) (model.Unit, error) {
	var u model.Unit
	err := row.Scan(&u.ID, &u.PropertyID, &u.Number, &u.Bedrooms, &u.Bathrooms, &u.Rent)
	return u, err
}

func scanTenant(row pgx.CollectableRow) (model.Tenant, error) {
	var (
		t    model.Tenant
		unit *string
	)
	err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Active, &unit,
		&t.EmergencyContact, &t.MoveInDate)
	if unit != nil {
		t.UnitID = *unit
	}
	return t, err
}

func scanVendor(row pgx.CollectableRow) (model.Vendor, error) {
	var (
		v     model.Vendor
		specs []string
	)
	err := row.Scan(&v.ID, &v.Name, &v.ContactName, &v.Email, &v.Phone, &specs, &v.Rating, &v.TotalJobs, &v.Active)
	for _, s := range specs {
		v.Specialties = append(v.Specialties, model.Specialty(s))
	}
	return v, err
}

// Seed replaces the catalog tables' contents with snap in one transaction.
func (s *Store) Seed(ctx context.Context, snap *catalog.Snapshot) (err error) {
	if err := snap.Validate(); err != nil {
		return err
	}
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `TRUNCATE managers, properties, units, tenants, vendors RESTART IDENTITY`); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, m := range snap.Managers {
		batch.Queue(`INSERT INTO managers (id, name, email, phone) VALUES ($1,$2,$3,$4)`, m.ID, m.Name, m.Email, m.Phone)
	}
	for _, p := range snap.Properties {
		batch.Queue(`INSERT INTO properties (id, name, street, city, state, zip, lat, lng, property_type, status,
            total_units, occupied_units, images, amenities, manager_id)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			p.ID, p.Name, p.Address.Street, p.Address.City, p.Address.State, p.Address.Zip,
			p.Coordinates.Lat, p.Coordinates.Lng, string(p.Type), string(p.Status), p.TotalUnits, p.OccupiedUnits,
			nonNil(p.Images), nonNil(p.Amenities), nullable(p.ManagerID))
	}
	for _, u := range snap.Units {
		batch.Queue(`INSERT INTO units (id, property_id, number, bedrooms, bathrooms, rent) VALUES ($1,$2,$3,$4,$5,$6)`,
			u.ID, u.PropertyID, u.Number, u.Bedrooms, u.Bathrooms, u.Rent)
	}
	for _, t := range snap.Tenants {
		batch.Queue(`INSERT INTO tenants (id, first_name, last_name, email, phone, active, unit_id, emergency_contact, move_in_date)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			t.ID, t.FirstName, t.LastName, t.Email, t.Phone, t.Active, nullable(t.UnitID), t.EmergencyContact, t.MoveInDate)
	}
	for _, v := range snap.Vendors {
		specs := make([]string, 0, len(v.Specialties))
		for _, sp := range v.Specialties {
			specs = append(specs, string(sp))
		}
		batch.Queue(`INSERT INTO vendors (id, name, contact_name, email, phone, specialties, rating, total_jobs, active)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			v.ID, v.Name, v.ContactName, v.Email, v.Phone, specs, v.Rating, v.TotalJobs, v.Active)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
