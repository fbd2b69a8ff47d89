// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Drafts is the in-memory back end for editor state; it lives here so the
// handlers built in BuildHandler and the sweeper started in Startup share it.
type DBDeps struct {
	LessonHubMongoClient   *mongo.Client
	LessonHubMongoDatabase *mongo.Database

	Drafts       *drafts.Registry
	DraftSweeper *workers.DraftSweeper
}
