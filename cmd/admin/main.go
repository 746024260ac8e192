// 门户后台的建号工具。站点没有公开注册入口，
// 管理员账号只能在这里创建，首次登录强制改密。
package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"phPortfolio/internal/auth"
	"phPortfolio/internal/config"
	"phPortfolio/internal/database"
)

const initialPasswordBytes = 24

func main() {
	username := flag.String("username", "", "管理员用户名（必填）")
	flag.Parse()

	name := strings.TrimSpace(*username)
	if name == "" {
		log.Fatal("missing required flag: --username")
	}

	dbCfg, err := databaseConfigFromEnv()
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := db.AutoMigrate(&database.User{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	var existing database.User
	switch err := db.Where("username = ?", name).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q already exists", name)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := newInitialPassword()
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin := database.User{
		Username:           name,
		PasswordHash:       hashed,
		IsAdmin:            true,
		MustChangePassword: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("create admin user: %v", err)
	}

	fmt.Printf("门户管理员账号已创建：\n")
	fmt.Printf("  用户名: %s\n", name)
	fmt.Printf("  初始密码: %s\n", password)
	fmt.Printf("该密码只显示这一次，首次登录会强制修改。\n")
}

// databaseConfigFromEnv 只组装建号需要的数据库连接，
// 不走完整的 config.Load（那会要求 JWT 密钥等 API 侧配置）。
func databaseConfigFromEnv() (config.DatabaseConfig, error) {
	cfg := config.DatabaseConfig{
		Host:     envFirst("DATABASE_HOST"),
		Port:     5432,
		Name:     envFirst("POSTGRES_DB", "DB_NAME"),
		User:     envFirst("POSTGRES_USER", "DB_USER"),
		Password: envFirst("POSTGRES_PASSWORD", "DB_PASSWORD"),
		SSLMode:  envFirst("DATABASE_SSLMODE"),
	}

	if raw := envFirst("DATABASE_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
		}
		cfg.Port = port
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	if cfg.Name == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if cfg.User == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if cfg.Password == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}
	return cfg, nil
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func newInitialPassword() (string, error) {
	buf := make([]byte, initialPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
