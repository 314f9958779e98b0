package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"match_chat/internal/api"
	"match_chat/internal/config"
	"match_chat/internal/models"
	"match_chat/internal/repository"
	"match_chat/internal/service"
	"match_chat/internal/storage"
	"match_chat/internal/utils"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// JWT 密鑰從配置注入
	utils.SetSecret(cfg.JWT.Secret)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(&models.User{}, &models.Channel{}, &models.Message{}); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, logger, cfg.Match.Interval)

	// 啟動配對排程器
	services.Matchmaker.Start()
	defer services.Matchmaker.Stop()
	defer services.Hub.Close()

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
