//go:build integration

// Package integration 针对运行中的api进程的端到端测试
//
// 运行方式：
//
//	docker compose up -d mysql redis
//	go run ./cmd/api &
//	go test -tags=integration ./test/integration/...
//
// 测试直接连接同一个MySQL创建读者账号，并用共享的JWT密钥签发Token。
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookclub/internal/domain/user"
	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookclub/pkg/jwt"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL 可通过BOOKCLUB_BASE_URL覆盖
var BaseURL = envOr("BOOKCLUB_BASE_URL", "http://localhost:8080/api/v1")

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"-"`
}

type BookData struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Stock         int    `json:"stock"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	IsActive      bool   `json:"is_active"`
}

type OrderData struct {
	ID     uint   `json:"id"`
	Code   string `json:"code"`
	Total  string `json:"total"`
	Status string `json:"status"`
}

type TreasuryData struct {
	AccountID uint   `json:"account_id"`
	Balance   string `json:"balance"`
}

// Env 一次测试运行共享的配置、数据库连接与Token签发器
type Env struct {
	cfg        *config.Config
	db         *gorm.DB
	jwt        *jwt.Manager
	AdminToken string
}

var (
	envOnce sync.Once
	env     *Env
	envErr  error
)

// Setup 加载与api进程相同的配置（BOOKCLUB_CONFIG指定文件时优先）
func Setup(t *testing.T) *Env {
	t.Helper()
	envOnce.Do(func() {
		var cfg *config.Config
		if path := os.Getenv("BOOKCLUB_CONFIG"); path != "" {
			cfg, envErr = config.LoadFile(path)
		} else {
			cfg, envErr = config.Load()
		}
		if envErr != nil {
			return
		}

		var db *gorm.DB
		if db, envErr = mysql.NewDB(cfg, logger.Nop()); envErr != nil {
			return
		}
		capital, err := cfg.Commerce.OpeningCapital()
		if err != nil {
			envErr = err
			return
		}
		treasuryID := cfg.Commerce.TreasuryAccountID
		if treasuryID == 0 {
			if treasuryID, envErr = mysql.EnsureTreasury(context.Background(), db, cfg.Commerce.TreasuryEmail, capital); envErr != nil {
				return
			}
		}

		manager := jwt.NewManager(cfg.JWT.Secret, time.Hour)
		adminToken, err := manager.GenerateToken(treasuryID, cfg.Commerce.TreasuryEmail, string(user.RoleAdmin))
		if err != nil {
			envErr = err
			return
		}
		env = &Env{cfg: cfg, db: db, jwt: manager, AdminToken: adminToken}
	})
	if envErr != nil {
		t.Skipf("集成测试环境不可用: %v", envErr)
	}
	return env
}

// NewReader 创建读者并返回Token
func (e *Env) NewReader(t *testing.T, prefix string) (uint, string) {
	t.Helper()
	email := fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
	u := user.NewClient(user.Profile{Email: email, FullName: "Reader " + prefix, Phone: "555-0100"}, "basic")
	require.NoError(t, mysql.NewUserRepository(e.db).Create(context.Background(), u))

	token, err := e.jwt.GenerateToken(u.ID, email, string(user.RoleClient))
	require.NoError(t, err)
	return u.ID, token
}

// UniqueTitle 避免与已上架图书重名
func UniqueTitle(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

// PublishBook 以管理员身份上架图书
func (e *Env) PublishBook(t *testing.T, title string, stock int) BookData {
	t.Helper()
	resp := Do(t, http.MethodPost, BaseURL+"/books", map[string]any{
		"title": title, "author": "Integration Author", "stock": stock, "genre": "poetry", "language": "english",
	}, e.AdminToken)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	var b BookData
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	return b
}

// Treasury 当前平台资金
func (e *Env) Treasury(t *testing.T) TreasuryData {
	t.Helper()
	resp := Do(t, http.MethodGet, BaseURL+"/ledger?page_size=1", nil, e.AdminToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	var data TreasuryData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

// Do 发送JSON请求并解析统一响应
func Do(t *testing.T, method, url string, body any, token string) Response {
	t.Helper()
	resp, err := Send(method, url, body, token)
	require.NoError(t, err)
	return resp
}

// Send 不依赖testing.T，可在goroutine中使用
func Send(method, url string, body any, token string) (Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("序列化请求失败: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	httpResp, err := client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, fmt.Errorf("解析响应失败: %s", raw)
	}
	resp.Status = httpResp.StatusCode
	return resp, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
