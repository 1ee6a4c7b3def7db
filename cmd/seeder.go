package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles, permissions, reference data and an admin user for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm session: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			tables := []string{
				"webhook_processing_rules", "webhook_templates", "webhook_event_types",
				"notification_channels", "notification_locales",
				"company_currency_rates", "plan_currency_rates", "currencies", "currency_groups",
				"logs", "users", "companies", "role_permissions", "permissions", "roles", "user_types",
			}
			for _, t := range tables {
				if err := db.Exec("TRUNCATE TABLE " + t + " RESTART IDENTITY CASCADE").Error; err != nil {
					log.Fatalf("failed to truncate %s: %v", t, err)
				}
			}
		}

		seedRolesAndPermissions(db)
		seedUserTypes(db)
		seedNotificationRefs(db)
		seedCurrencies(db)
		seedAdminUser(db)

		fmt.Println("Seeding complete")
	},
}

func seedRolesAndPermissions(db *gorm.DB) {
	roles := []struct {
		Name string
		Desc string
	}{
		{"admin", "Platform administrator"},
		{"customer", "Merchant company user"},
	}
	for _, r := range roles {
		ensureRow(db, "roles", "name", r.Name,
			"INSERT INTO roles (name, description, created_at) VALUES (?, ?, now())", r.Name, r.Desc)
	}

	permissions := []struct {
		Name string
		Desc string
	}{
		{"admin", "Full administrator"},
		{"manage_users", "Can manage users"},
		{"manage_currencies", "Can manage currencies and conversion rates"},
		{"manage_webhooks", "Can manage webhook event types, templates and rules"},
		{"view_logs", "Can view request audit logs"},
	}
	for _, p := range permissions {
		ensureRow(db, "permissions", "name", p.Name,
			"INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc)
	}

	grants := map[string][]string{
		"admin":    {"admin"},
		"customer": {"manage_users", "manage_currencies", "view_logs"},
	}
	for roleName, permNames := range grants {
		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row().Scan(&roleID); err != nil {
			log.Fatalf("role not found after insert %s: %v", roleName, err)
		}
		for _, permName := range permNames {
			var permID int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&permID); err != nil {
				log.Fatalf("permission not found after insert %s: %v", permName, err)
			}
			var exists int
			if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleID, permID).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, now())", roleID, permID).Error; err != nil {
				log.Fatalf("failed to grant %s to role %s: %v", permName, roleName, err)
			}
		}
	}

	fmt.Println("Seeded roles and permissions")
}

func seedUserTypes(db *gorm.DB) {
	types := []struct {
		Name string
		Desc string
	}{
		{"internal", "Platform staff"},
		{"merchant", "Merchant company user"},
	}
	for _, t := range types {
		ensureRow(db, "user_types", "name", t.Name,
			"INSERT INTO user_types (name, description, created_at) VALUES (?, ?, now())", t.Name, t.Desc)
	}
	fmt.Println("Seeded user types")
}

func seedNotificationRefs(db *gorm.DB) {
	for _, name := range []string{"email", "sms", "push"} {
		ensureRow(db, "notification_channels", "name", name,
			"INSERT INTO notification_channels (name) VALUES (?)", name)
	}

	locales := []struct {
		Code string
		Name string
	}{
		{"en", "English"},
		{"zh-CN", "Chinese (Simplified)"},
		{"id", "Indonesian"},
	}
	for _, l := range locales {
		ensureRow(db, "notification_locales", "code", l.Code,
			"INSERT INTO notification_locales (code, name) VALUES (?, ?)", l.Code, l.Name)
	}
	fmt.Println("Seeded notification channels and locales")
}

func seedCurrencies(db *gorm.DB) {
	groups := []struct {
		Name string
		Desc string
	}{
		{"major", "Major currencies"},
		{"exotic", "Exotic currencies"},
	}
	for _, g := range groups {
		ensureRow(db, "currency_groups", "name", g.Name,
			"INSERT INTO currency_groups (name, description, created_at, updated_at) VALUES (?, ?, now(), now())", g.Name, g.Desc)
	}

	currencies := []struct {
		Code  string
		Name  string
		Group string
	}{
		{"USD", "US Dollar", "major"},
		{"EUR", "Euro", "major"},
		{"GBP", "Pound Sterling", "major"},
		{"TRY", "Turkish Lira", "exotic"},
		{"IDR", "Indonesian Rupiah", "exotic"},
	}
	for _, c := range currencies {
		var groupID int64
		if err := db.Raw("SELECT id FROM currency_groups WHERE name = ?", c.Group).Row().Scan(&groupID); err != nil {
			log.Fatalf("currency group not found %s: %v", c.Group, err)
		}
		ensureRow(db, "currencies", "code", c.Code,
			"INSERT INTO currencies (code, name, group_id, created_at, updated_at) VALUES (?, ?, ?, now(), now())", c.Code, c.Name, groupID)
	}
	fmt.Println("Seeded currency groups and currencies")
}

func seedAdminUser(db *gorm.DB) {
	adminEmail := "admin@merchant.local"

	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row().Scan(&exists); err == nil {
		fmt.Println("Admin user already exists:", adminEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	var roleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", "admin").Row().Scan(&roleID); err != nil {
		log.Fatalf("admin role not found: %v", err)
	}

	if err := db.Exec(
		"INSERT INTO users (email, first_name, last_name, password_hash, role_id, is_active, is_deleted, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, false, now(), now())",
		adminEmail, "Platform", "Admin", string(hash), roleID).Error; err != nil {
		log.Fatalf("failed to insert admin user: %v", err)
	}

	fmt.Println("Seeded admin user:", adminEmail)
}

// ensureRow inserts a row unless one already exists with the given key.
func ensureRow(db *gorm.DB, table, keyColumn, keyValue, insertSQL string, args ...interface{}) {
	var exists int
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ?", table, keyColumn)
	if err := db.Raw(query, keyValue).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(insertSQL, args...).Error; err != nil {
		log.Fatalf("failed to seed %s %s: %v", table, keyValue, err)
	}
}
