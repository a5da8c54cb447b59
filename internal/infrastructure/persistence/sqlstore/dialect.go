package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/dvdrental/pkg/logging"
)

const (
	dialectPostgres = "postgres"
	dialectMySQL    = "mysql"
)

// elapsedDaysExpr is whole days from r.rental_date to the return, or to the
// bound parameter while the rental is open.
func elapsedDaysExpr(db *gorm.DB) string {
	if db.Dialector.Name() == dialectPostgres {
		return "EXTRACT(DAY FROM (COALESCE(r.return_date, ?) - r.rental_date))"
	}
	return "TIMESTAMPDIFF(DAY, r.rental_date, COALESCE(r.return_date, ?))"
}

// specialFeaturesExpr renders film.special_features as comma separated text.
// Postgres stores text[], MySQL a SET.
func specialFeaturesExpr(db *gorm.DB) string {
	if db.Dialector.Name() == dialectPostgres {
		return "COALESCE(array_to_string(f.special_features, ','), '')"
	}
	return "COALESCE(f.special_features, '')"
}

type guard struct {
	name  string
	table string
	// present reports whether the guard already exists.
	present func(m gorm.Migrator) bool
	// ddl lists the statements still needed to install it.
	ddl func(m gorm.Migrator) []string
}

func statements(stmts ...string) func(gorm.Migrator) []string {
	return func(gorm.Migrator) []string { return stmts }
}

func guardsFor(dialect string) []guard {
	paymentGuard := guard{
		name:    "uq_payment_rental",
		table:   "payment",
		present: func(m gorm.Migrator) bool { return m.HasIndex("payment", "uq_payment_rental") },
		ddl:     statements("CREATE UNIQUE INDEX uq_payment_rental ON payment (rental_id)"),
	}

	if dialect == dialectPostgres {
		return []guard{
			{
				name:    "uq_rental_open_inventory",
				table:   "rental",
				present: func(m gorm.Migrator) bool { return m.HasIndex("rental", "uq_rental_open_inventory") },
				ddl: statements(
					"CREATE UNIQUE INDEX uq_rental_open_inventory ON rental (inventory_id) WHERE return_date IS NULL",
				),
			},
			paymentGuard,
		}
	}

	// MySQL has no partial indexes; a generated column that is NULL once the
	// rental is returned gives the same effect since NULLs never collide.
	return []guard{
		{
			name:    "uq_rental_open_inventory",
			table:   "rental",
			present: func(m gorm.Migrator) bool { return m.HasIndex("rental", "uq_rental_open_inventory") },
			ddl: func(m gorm.Migrator) []string {
				var stmts []string
				if !m.HasColumn("rental", "open_inventory_id") {
					stmts = append(stmts, "ALTER TABLE rental ADD COLUMN open_inventory_id INT GENERATED ALWAYS AS (IF(return_date IS NULL, inventory_id, NULL)) STORED")
				}
				return append(stmts, "CREATE UNIQUE INDEX uq_rental_open_inventory ON rental (open_inventory_id)")
			},
		},
		paymentGuard,
	}
}

// EnsureGuards installs the storage-level uniqueness backstops. The row locks
// taken by the lifecycle transactions already serialise writers, so a guard
// that cannot be created (e.g. on a partitioned payment table) is logged and skipped.
func EnsureGuards(ctx context.Context, db *gorm.DB) {
	log := logging.WithComponent("sqlstore")
	m := db.WithContext(ctx).Migrator()
	for _, g := range guardsFor(db.Dialector.Name()) {
		if g.present(m) {
			continue
		}
		if err := installGuard(ctx, db, g.ddl(m)); err != nil {
			log.Warn().Err(err).Str("guard", g.name).Str("table", g.table).Msg("storage guard not installed")
			continue
		}
		log.Info().Str("guard", g.name).Str("table", g.table).Msg("storage guard installed")
	}
}

func installGuard(ctx context.Context, db *gorm.DB, stmts []string) error {
	for _, stmt := range stmts {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
