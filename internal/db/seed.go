package db

import (
	"database/sql"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Seed inserts a demo admin, owner, and user plus two rated stores. It is a
// no-op when the users table already has rows, so it is safe to leave
// enabled between restarts.
func Seed(db *sql.DB, bcryptCost int) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		log.Fatal("Seed check failed:", err)
	}
	if count > 0 {
		log.Println("Seed skipped, users already exist")
		return
	}

	adminID := seedUser(db, bcryptCost, "System Administrator Account Holder", "admin@example.com", "Admin@1234!", "Admin HQ", "admin")
	ownerID := seedUser(db, bcryptCost, "Store Owner Demonstration Account", "owner@example.com", "Owner@1234!", "Owner address", "owner")
	userID := seedUser(db, bcryptCost, "Normal User Demonstration Account", "user@example.com", "User@1234!", "User address", "user")
	_ = adminID

	store1 := seedStore(db, "Alpha Grocers", "alpha@store.com", "MG Road", ownerID)
	store2 := seedStore(db, "Beta Mart", "beta@store.com", "Main Street", ownerID)

	seedRating(db, userID, store1, 4, "Nice store")
	seedRating(db, userID, store2, 5, "Excellent")

	log.Println("Seed completed")
}

func seedUser(db *sql.DB, cost int, name, email, password, address, role string) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		log.Fatal("Seed hash failed:", err)
	}
	res, err := db.Exec(
		"INSERT INTO users (name, email, password_hash, address, role) VALUES (?, ?, ?, ?, ?)",
		name, email, string(hash), address, role,
	)
	if err != nil {
		log.Fatal("Seed user failed:", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func seedStore(db *sql.DB, name, email, address string, ownerID int) int {
	res, err := db.Exec(
		"INSERT INTO stores (name, email, address, owner_id) VALUES (?, ?, ?, ?)",
		name, email, address, ownerID,
	)
	if err != nil {
		log.Fatal("Seed store failed:", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func seedRating(db *sql.DB, userID, storeID, rating int, comment string) {
	_, err := db.Exec(
		"INSERT INTO ratings (user_id, store_id, rating, comment) VALUES (?, ?, ?, ?)",
		userID, storeID, rating, comment,
	)
	if err != nil {
		log.Fatal("Seed rating failed:", err)
	}
}
