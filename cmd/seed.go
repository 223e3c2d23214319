package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/jmehdipour/customer-service/internal/db"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo users and customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.PoolOptsFrom(cfg.MySQL))
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo users...")
		if err := seedUsers(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seeding demo customers...")
		n, err := seedCustomers(sqlDB)
		if err != nil {
			return err
		}

		log.Printf(">> Seed completed (%d customers inserted)", n)
		return nil
	},
}

var demoUsers = []string{"admin", "sales", "support"}

// seedUsers inserts the demo owners (idempotent on username).
func seedUsers(dbx *sqlx.DB) error {
	const q = `
INSERT INTO users (username, created_at)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE username = VALUES(username)
`
	now := time.Now().UTC()
	for _, u := range demoUsers {
		if _, err := dbx.Exec(q, u, now); err != nil {
			return fmt.Errorf("insert user %q: %w", u, err)
		}
	}
	return nil
}

// seedCustomers inserts demo customers owned by the first demo user, only when
// the table is still empty.
func seedCustomers(dbx *sqlx.DB) (int, error) {
	var count int
	if err := dbx.Get(&count, `SELECT COUNT(*) FROM customers`); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	var ownerID int64
	if err := dbx.Get(&ownerID, `SELECT id FROM users WHERE username = ?`, demoUsers[0]); err != nil {
		return 0, fmt.Errorf("lookup owner: %w", err)
	}

	customers := []model.Customer{
		{FirstName: "Ada", LastName: "Lovelace", City: "London", Country: "GB", Email: strptr("ada@example.com"), Organization: strptr("Analytical Engines")},
		{FirstName: "Alan", LastName: "Turing", City: "Manchester", Country: "GB", Phone: strptr("+441612345678")},
		{FirstName: "Maryam", LastName: "Mirzakhani", City: "Tehran", Country: "IR", Mobile: strptr("+989121234567")},
		{FirstName: "Grace", LastName: "Hopper", City: "Arlington", Country: "US", Organization: strptr("US Navy")},
	}

	const q = `
INSERT INTO customers
    (created_at, first_name, last_name, phone, mobile, city, country, email, organization, user_id)
VALUES
    (:created_at, :first_name, :last_name, :phone, :mobile, :city, :country, :email, :organization, :user_id)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, c := range customers {
		c.UserID = ownerID
		if err := model.Validate(&c); err != nil {
			return 0, fmt.Errorf("demo customer %q: %w", c.FirstName, err)
		}
		if _, err := tx.NamedExec(q, map[string]any{
			"created_at":   now,
			"first_name":   c.FirstName,
			"last_name":    c.LastName,
			"phone":        c.Phone,
			"mobile":       c.Mobile,
			"city":         c.City,
			"country":      c.Country,
			"email":        c.Email,
			"organization": c.Organization,
			"user_id":      c.UserID,
		}); err != nil {
			return 0, fmt.Errorf("insert customer %q: %w", c.FirstName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit customers: %w", err)
	}
	return len(customers), nil
}

func strptr(s string) *string { return &s }
