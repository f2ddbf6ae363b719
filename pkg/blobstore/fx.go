package blobstore

import (
	"github.com/glebarez/sqlite"
	"github.com/ledgerpad/ledgerpad/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("blobstore",
	fx.Provide(OpenDB),
	fx.Provide(New),
)

func OpenDB(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	log.Info("blob store opened", zap.String("path", cfg.DBPath))
	return db, nil
}
