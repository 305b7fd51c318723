// seed crea el esquema de la tienda y lo puebla con datos iniciales:
// un admin, categorías y productos de demostración. Opcionalmente importa un
// catálogo de productos desde CSV (los catálogos de proveedores suelen venir
// en ISO-8859-1; se transcodifican a UTF-8 al importar).
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
//
// Variables: DATABASE_URL (o DB_HOST...), SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Medistore-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Medistore-api/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS auth_users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS user_profiles (
	id         UUID PRIMARY KEY REFERENCES auth_users(id) ON DELETE CASCADE,
	email      TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('admin', 'customer')),
	full_name  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- Aprovisionamiento automático: cada identidad nueva recibe su perfil customer.
-- Si el backend llega primero (upsert del fetch auto-reparador), el trigger no pisa nada.
CREATE OR REPLACE FUNCTION provision_user_profile() RETURNS trigger AS $$
BEGIN
	INSERT INTO user_profiles (id, email, full_name)
	VALUES (NEW.id, NEW.email, NEW.full_name)
	ON CONFLICT (id) DO NOTHING;
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_provision_profile ON auth_users;
CREATE TRIGGER trg_provision_profile
	AFTER INSERT ON auth_users
	FOR EACH ROW EXECUTE FUNCTION provision_user_profile();

CREATE TABLE IF NOT EXISTS categories (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	price          NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	category_id    UUID REFERENCES categories(id) ON DELETE SET NULL,
	images         TEXT[] NOT NULL DEFAULT '{}',
	specifications JSONB,
	is_featured    BOOLEAN NOT NULL DEFAULT false,
	is_active      BOOLEAN NOT NULL DEFAULT true,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active);

CREATE TABLE IF NOT EXISTS orders (
	id               UUID PRIMARY KEY,
	customer_id      UUID REFERENCES auth_users(id) ON DELETE SET NULL,
	customer_email   TEXT NOT NULL,
	customer_name    TEXT NOT NULL,
	customer_phone   TEXT NOT NULL DEFAULT '',
	items            JSONB NOT NULL,
	total_amount     NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
	status           TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
	shipping_address TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS messages (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL,
	body       TEXT NOT NULL,
	is_read    BOOLEAN NOT NULL DEFAULT false,
	replied_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		fail("crear esquema: %v", err)
	}
	fmt.Println("esquema aplicado")

	if err := seedAdmin(ctx, pool); err != nil {
		fail("seed admin: %v", err)
	}

	catIDs, err := seedCategories(ctx, pool)
	if err != nil {
		fail("seed categorías: %v", err)
	}

	if err := seedDemoProducts(ctx, pool, catIDs); err != nil {
		fail("seed productos demo: %v", err)
	}

	if len(os.Args) > 1 {
		n, err := importCatalogCSV(ctx, pool, os.Args[1], catIDs)
		if err != nil {
			fail("importar catálogo %s: %v", os.Args[1], err)
		}
		fmt.Printf("catálogo importado: %d productos\n", n)
	}

	fmt.Println("seed completado")
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	email := envOr("SEED_ADMIN_EMAIL", "admin@medistore.local")
	password := envOr("SEED_ADMIN_PASSWORD", "cambiame-ya")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	_, err = pool.Exec(ctx, `
		INSERT INTO auth_users (id, email, password_hash, full_name)
		VALUES ($1, $2, $3, 'Administrador')
		ON CONFLICT (email) DO NOTHING`, id, email, string(hash))
	if err != nil {
		return err
	}
	// El trigger ya creó el perfil customer; elevarlo a admin.
	_, err = pool.Exec(ctx,
		`UPDATE user_profiles SET role = 'admin', updated_at = now() WHERE email = $1`, email)
	if err != nil {
		return err
	}
	fmt.Printf("admin listo: %s\n", email)
	return nil
}

var demoCategories = []struct{ name, description string }{
	{"Diagnóstico", "Equipos de diagnóstico y monitoreo de signos vitales"},
	{"Mobiliario clínico", "Camillas, sillas de ruedas y mobiliario hospitalario"},
	{"Insumos", "Insumos y consumibles de uso clínico"},
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	ids := make(map[string]string)
	for _, c := range demoCategories {
		id := uuid.New().String()
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING`, id, c.name, c.description)
		if err != nil {
			return nil, err
		}
		var realID string
		if err := pool.QueryRow(ctx,
			`SELECT id FROM categories WHERE name = $1`, c.name).Scan(&realID); err != nil {
			return nil, err
		}
		ids[c.name] = realID
	}
	fmt.Printf("categorías listas: %d\n", len(ids))
	return ids, nil
}

var demoProducts = []struct {
	name, category string
	price          int64
	stock          int
	featured       bool
}{
	{"Tensiómetro digital de brazo", "Diagnóstico", 185000, 40, true},
	{"Oxímetro de pulso portátil", "Diagnóstico", 95000, 120, true},
	{"Termómetro infrarrojo sin contacto", "Diagnóstico", 78000, 85, false},
	{"Camilla plegable de examen", "Mobiliario clínico", 620000, 12, true},
	{"Silla de ruedas estándar", "Mobiliario clínico", 540000, 18, false},
	{"Guantes de nitrilo x100", "Insumos", 32000, 300, false},
}

func seedDemoProducts(ctx context.Context, pool *pgxpool.Pool, catIDs map[string]string) error {
	for _, p := range demoProducts {
		var exists bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE name = $1)`, p.name).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, stock, category_id, is_featured, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, true)`,
			uuid.New().String(), p.name, decimal.NewFromInt(p.price), p.stock,
			catIDs[p.category], p.featured,
		)
		if err != nil {
			return err
		}
	}
	fmt.Printf("productos demo listos: %d\n", len(demoProducts))
	return nil
}

// importCatalogCSV importa productos desde un CSV de proveedor con columnas
// nombre;descripcion;precio;stock;categoria. Transcodifica ISO-8859-1 → UTF-8.
func importCatalogCSV(ctx context.Context, pool *pgxpool.Pool, path string, catIDs map[string]string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var reader io.Reader = f
	reader = transform.NewReader(reader, charmap.ISO8859_1.NewDecoder())

	r := csv.NewReader(reader)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(record) < 4 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" || strings.EqualFold(name, "nombre") {
			continue // cabecera o fila vacía
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(record[2], ",", "."))
		if err != nil || price.IsNegative() {
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil || stock < 0 {
			stock = 0
		}
		var categoryID any
		if len(record) > 4 {
			if id, ok := catIDs[strings.TrimSpace(record[4])]; ok {
				categoryID = id
			}
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO products (id, name, description, price, stock, category_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, true)`,
			uuid.New().String(), name, strings.TrimSpace(record[1]), price, stock, categoryID,
		)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
