package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/censusgap-backend/internal/data/repos/records"
	"github.com/yungbote/censusgap-backend/internal/data/repos/user"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type RecordRepo = records.RecordRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	return records.NewRecordRepo(db, baseLog)
}
