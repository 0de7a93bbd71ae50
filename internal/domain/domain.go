package domain

import (
	"github.com/yungbote/censusgap-backend/internal/domain/census"
	"github.com/yungbote/censusgap-backend/internal/domain/user"
)

type User = user.User

type CensusRecord = census.CensusRecord

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&User{},
		&CensusRecord{},
	}
}
