// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Sessions *sessions.Store
	Audit    *audit.Store
}
