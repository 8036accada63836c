package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound dikembalikan oleh Get jika tidak ada baris yang cocok.
var ErrNotFound = errors.New("record not found")

// Store membungkus koneksi database dan menyediakan primitif query
// yang digunakan oleh semua handler. Semua query wajib parameterized.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Execute menjalankan INSERT/UPDATE/DELETE dan mengembalikan jumlah
// baris yang terpengaruh.
func (s *Store) Execute(query string, args ...interface{}) (int64, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExecuteReturningID menjalankan INSERT dengan klausa RETURNING id.
func (s *Store) ExecuteReturningID(query string, args ...interface{}) (int, error) {
	var id int
	if err := s.db.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Get mengambil satu baris ke dest. Jika tidak ada baris yang cocok,
// kembalikan ErrNotFound, bukan error koneksi.
func (s *Store) Get(dest interface{}, query string, args ...interface{}) error {
	if err := s.db.Get(dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Select mengambil banyak baris ke dest (slice). Nol baris menghasilkan
// slice kosong, bukan error.
func (s *Store) Select(dest interface{}, query string, args ...interface{}) error {
	return s.db.Select(dest, query, args...)
}

// Transact menjalankan fn di dalam satu transaksi. Rollback jika fn
// mengembalikan error atau panic.
func (s *Store) Transact(fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
