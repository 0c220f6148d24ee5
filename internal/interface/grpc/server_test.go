package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	apporder "github.com/xiebiao/bookclub/internal/application/order"
	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/cart"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
	"github.com/xiebiao/bookclub/pkg/jwt"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/validation"
)

type env struct {
	repos  *persistence.Repositories
	jwt    *jwt.Manager
	client *OrderServiceClient
	conn   *grpc.ClientConn
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := persistence.NewMemory(store)
	var err error
	repos.TreasuryID, err = memory.EnsureTreasury(context.Background(), store, "treasury@bookclub.test", decimal.NewFromInt(500))
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(repos.Ledger, repos.Tx)
	dispatcher := apporder.NewDispatcher(apporder.NopNotifier{}, time.Second, logger.Nop())
	create := apporder.NewCreateOrderUseCase(repos.Tx, repos.Users, cart.NewService(repos.Carts, repos.Books, repos.Tx), repos.Books, repos.Orders, ledgerSvc,
		apporder.NopCache{}, dispatcher, validation.New(),
		apporder.Settings{TreasuryID: repos.TreasuryID, CodeAttempts: 5}, logger.Nop())
	update := apporder.NewUpdateStatusUseCase(repos.Orders, apporder.NopCache{}, logger.Nop())

	jwtManager := jwt.NewManager("grpc-test-secret", time.Hour)
	srv := NewServer(NewOrderServer(create, update), jwtManager, nil, logger.Nop())

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &env{repos: repos, jwt: jwtManager, client: NewOrderServiceClient(conn), conn: conn}
}

func (e *env) withToken(t *testing.T, userID uint, role user.Role) context.Context {
	t.Helper()
	token, err := e.jwt.GenerateToken(userID, "someone@example.com", string(role))
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func (e *env) clientWithCart(t *testing.T, qty int) *user.User {
	t.Helper()
	ctx := context.Background()
	u := user.NewClient(user.Profile{Email: "ann@example.com", FullName: "Ann Reader", Phone: "555-0100"}, "basic")
	require.NoError(t, e.repos.Users.Create(ctx, u))

	b, err := book.NewBook("Dune", "Frank Herbert", "", "", 3, book.GenreFantasy, book.LanguageEnglish, decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, e.repos.Books.Create(ctx, b))

	item, err := cart.NewCartItem(u.ID, b.ID, qty)
	require.NoError(t, err)
	require.NoError(t, e.repos.Carts.Create(ctx, item))
	return u
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func errorReason(t *testing.T, err error) string {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.Reason
		}
	}
	return ""
}

func TestCreateOrder(t *testing.T) {
	e := newEnv(t)
	u := e.clientWithCart(t, 2)

	out, err := e.client.CreateOrder(e.withToken(t, u.ID, user.RoleClient), mustStruct(t, map[string]any{
		"contact": map[string]any{"phone": "555-0199"},
	}))
	require.NoError(t, err)

	fields := out.AsMap()
	assert.Equal(t, "66.00", fields["total"])
	assert.Equal(t, "pending", fields["status"])
	assert.Regexp(t, `^[A-Z0-9]{6}$`, fields["code"])
	contact := fields["contact"].(map[string]any)
	assert.Equal(t, "555-0199", contact["phone"])
	assert.Equal(t, "ann@example.com", contact["email"])
}

func TestCreateOrder_Errors(t *testing.T) {
	e := newEnv(t)
	u := e.clientWithCart(t, 5)

	t.Run("missing token", func(t *testing.T) {
		_, err := e.client.CreateOrder(context.Background(), mustStruct(t, nil))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		_, err := e.client.CreateOrder(e.withToken(t, u.ID, user.RoleClient), mustStruct(t, nil))
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
		assert.Equal(t, "40001", errorReason(t, err))
	})

	t.Run("delivery without shipping", func(t *testing.T) {
		_, err := e.client.CreateOrder(e.withToken(t, u.ID, user.RoleClient), mustStruct(t, map[string]any{"is_delivery": true}))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	e := newEnv(t)
	u := e.clientWithCart(t, 1)
	created, err := e.client.CreateOrder(e.withToken(t, u.ID, user.RoleClient), mustStruct(t, nil))
	require.NoError(t, err)
	orderID := created.AsMap()["id"]

	t.Run("client is forbidden", func(t *testing.T) {
		_, err := e.client.UpdateOrderStatus(e.withToken(t, u.ID, user.RoleClient),
			mustStruct(t, map[string]any{"order_id": orderID, "status": "delivered"}))
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	admin := e.withToken(t, e.repos.TreasuryID, user.RoleAdmin)

	t.Run("admin moves the order", func(t *testing.T) {
		out, err := e.client.UpdateOrderStatus(admin, mustStruct(t, map[string]any{"order_id": orderID, "status": "delivered"}))
		require.NoError(t, err)
		assert.Equal(t, "delivered", out.AsMap()["status"])
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := e.client.UpdateOrderStatus(admin, mustStruct(t, map[string]any{"order_id": orderID, "status": "shipped"}))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Equal(t, "40002", errorReason(t, err))
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := e.client.UpdateOrderStatus(admin, mustStruct(t, map[string]any{"order_id": 9999, "status": "shipped"}))
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestHealthDoesNotRequireToken(t *testing.T) {
	e := newEnv(t)
	resp, err := healthpb.NewHealthClient(e.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{apperrors.ErrInvalidParams, codes.InvalidArgument},
		{apperrors.ErrForbidden, codes.PermissionDenied},
		{apperrors.ErrDuplicateEntry, codes.AlreadyExists},
		{apperrors.ErrTooManyRequests, codes.ResourceExhausted},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{assert.AnError, codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)), tt.err.Error())
	}

	detailed := toStatus(apperrors.ErrInsufficientStock.WithDetails(map[string]any{"book_id": uint(7), "available": 1}))
	st, _ := status.FromError(detailed)
	require.Len(t, st.Details(), 1)
	info := st.Details()[0].(*errdetails.ErrorInfo)
	assert.Equal(t, "7", info.Metadata["book_id"])
	assert.Equal(t, "1", info.Metadata["available"])
}
