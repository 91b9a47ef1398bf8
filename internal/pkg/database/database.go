package database

import (
	"github.com/glebarez/sqlite"
	"github.com/pitchforge/backend/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitDB(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		// github.com/glebarez/sqlite is a pure-Go driver, no cgo.
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.Pitchbook{}, &model.Slide{}, &model.GenerationRun{}); err != nil {
		return nil, err
	}
	return db, nil
}
