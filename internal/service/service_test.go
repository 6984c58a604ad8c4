package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-inventory-audit/internal/log"
	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/internal/service"
	"go-inventory-audit/internal/testutil"
	"go-inventory-audit/pkg/jwt"
	"go-inventory-audit/pkg/password"
)

var errStorage = errors.New("storage unavailable")

type recordingPublisher struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (p *recordingPublisher) Publish(msg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

type env struct {
	db        *gorm.DB
	tokens    *jwt.TokenService
	publisher *recordingPublisher
	audit     service.AuditService
	auth      service.AuthService
	users     service.UserService
	inventory service.InventoryService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	logger := log.Discard()

	tokens, err := jwt.NewTokenService(jwt.Config{
		Secret: []byte("test-secret"),
		TTL:    time.Minute,
		Issuer: "inventory-test",
	})
	require.NoError(t, err)

	hasher := password.NewHasher(bcrypt.MinCost)
	userRepo := repository.NewUserRepo(db)
	publisher := &recordingPublisher{}
	audit := service.NewAuditService(repository.NewLogRepo(db), publisher, logger)

	return &env{
		db:        db,
		tokens:    tokens,
		publisher: publisher,
		audit:     audit,
		auth:      service.NewAuthService(db, userRepo, audit, hasher, tokens, logger),
		users:     service.NewUserService(db, userRepo, audit, hasher, logger),
		inventory: service.NewInventoryService(db, repository.NewProductRepo(db), audit, logger),
	}
}

func (e *env) register(t *testing.T, name, email, pw string) *model.User {
	t.Helper()
	user, err := e.auth.Register(&service.RegisterRequest{Name: name, Email: email, Password: pw})
	require.NoError(t, err)
	return user
}

func (e *env) logs(t *testing.T) []model.LogEntry {
	t.Helper()
	var entries []model.LogEntry
	require.NoError(t, e.db.Order("id ASC").Find(&entries).Error)
	return entries
}

func (e *env) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.User{}).Count(&n).Error)
	return n
}

func (e *env) countProducts(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Product{}).Count(&n).Error)
	return n
}

// failLogWrites makes every insert into the logs table fail from now on.
func (e *env) failLogWrites(t *testing.T) {
	t.Helper()
	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_logs", func(tx *gorm.DB) {
		if tx.Statement.Table == "logs" {
			_ = tx.AddError(errStorage)
		}
	})
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
