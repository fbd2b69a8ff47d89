// internal/app/features/systemusers/handler.go
package systemusers

import (
	uierrors "github.com/dalemusser/lessonhub/internal/app/features/errors"
	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves account registration: superadmins manage coordinators,
// teachers and students; coordinators register teachers.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Users    *userstore.Store
	PageSize int
}

// NewHandler constructs a System Users feature handler bound to
// the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		PageSize: paging.DefaultPageSize * 2,
	}
}
