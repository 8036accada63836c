package repository

// Migrate membuat tabel jika belum ada. Foreign key CASCADE tetap
// dipasang sebagai jaring pengaman walaupun penghapusan list sudah
// menghapus task anaknya secara eksplisit dalam satu transaksi.
func (s *Store) Migrate() error {
	query := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(255) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL UNIQUE,
    password VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lists (
    id SERIAL PRIMARY KEY,
    title VARCHAR(100) NOT NULL,
    description VARCHAR(500),
    color VARCHAR(7) NOT NULL DEFAULT '#007bff',
    user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    description VARCHAR(1000),
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    priority VARCHAR(10) NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    due_date DATE,
    list_id INT NOT NULL REFERENCES lists (id) ON DELETE CASCADE,
    user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := s.db.Exec(query)
	return err
}

// DropAllTables menghapus semua tabel. Hanya dipakai oleh test.
func (s *Store) DropAllTables() error {
	query := `
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS lists;
    DROP TABLE IF EXISTS users;
    `
	_, err := s.db.Exec(query)
	return err
}
