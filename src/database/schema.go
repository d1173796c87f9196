package database

var schemaStatements = []string{
	`
CREATE TABLE IF NOT EXISTS admins (
  id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS trackings (
  id BIGSERIAL PRIMARY KEY,
  tracking_number TEXT NOT NULL UNIQUE,
  ship_date TIMESTAMPTZ NOT NULL DEFAULT now(),
  delivery_date TIMESTAMPTZ NULL,
  estimated_delivery_date TIMESTAMPTZ NULL,
  recipient_name TEXT NOT NULL,
  recipient_phone TEXT NOT NULL,
  destination TEXT NOT NULL,
  origin TEXT NOT NULL,
  status TEXT NOT NULL,
  service TEXT NOT NULL
)`,
}
