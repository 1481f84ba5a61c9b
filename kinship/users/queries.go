package users

const (
	userColumns = `id, email, username, password_hash, first_name, last_name, email_verified, created_at, updated_at`

	queryCreate = `
		INSERT INTO users (id, email, username, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	queryFindByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	queryFindByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
)
