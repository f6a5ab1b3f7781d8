// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	SQL *sql.DB

	// Nil when audit persistence is disabled.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
