package user

const (
	userColumns = `id::text, email, first_name, last_name, is_active, created_at, updated_at`

	SelectUsers = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`
	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1::uuid
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	UpsertUser = `
		INSERT INTO users (id, email, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    is_active = EXCLUDED.is_active,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns + `
	`
	DeleteUserByID    = `DELETE FROM users WHERE id = $1::uuid`
	ExistsUserByEmail = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
)
