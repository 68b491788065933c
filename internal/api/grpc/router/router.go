package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/ratelimit"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/trivia-server/internal/api/grpc/handler"
	"github.com/dtroode/trivia-server/internal/api/grpc/middleware"
	"github.com/dtroode/trivia-server/internal/api/grpc/rpc"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

// RateLimit configures per-principal request limits. A zero RPS disables limiting.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Router represents a gRPC router for trivia operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	profileService  handler.ProfileService
	questionService handler.QuestionService
	verifier        model.TokenVerifier
	contextManager  model.ContextManager
	logger          *logger.Logger
	rateLimit       RateLimit
}

// New creates new gRPC Router instance.
func New(
	profileService handler.ProfileService,
	questionService handler.QuestionService,
	verifier model.TokenVerifier,
	contextManager model.ContextManager,
	logger *logger.Logger,
	rateLimit RateLimit,
) *Router {
	return &Router{
		profileService:  profileService,
		questionService: questionService,
		verifier:        verifier,
		contextManager:  contextManager,
		logger:          logger,
		rateLimit:       rateLimit,
	}
}

// requiresAuth matches every method except the health service.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), healthServicePrefix)
}

// Register registers all gRPC services and middleware.
//
// Interceptors run in order: logging, panic recovery, authentication
// (skipped for health checks) and, when enabled, rate limiting.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	rec := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.verifier, r.contextManager, r.logger)

	unary := []grpc.UnaryServerInterceptor{
		logging.HandleGRPC,
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(rec.HandlePanic)),
		selector.UnaryServerInterceptor(
			auth.UnaryServerInterceptor(authenticate.AuthFunc),
			selector.MatchFunc(requiresAuth),
		),
	}
	if r.rateLimit.RPS > 0 {
		limiter := middleware.NewRateLimit(r.contextManager, r.rateLimit.RPS, r.rateLimit.Burst)
		unary = append(unary, ratelimit.UnaryServerInterceptor(limiter))
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(rec.HandlePanic)),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerProfileRoutes(s)
	r.registerQuestionRoutes(s)
	r.registerHealth(s)

	return s
}

func (r *Router) registerProfileRoutes(server *grpc.Server) {
	profileHandler := handler.NewProfile(r.profileService, r.contextManager, r.logger)
	rpc.RegisterProfilesServer(server, profileHandler)
}

func (r *Router) registerQuestionRoutes(server *grpc.Server) {
	questionHandler := handler.NewQuestion(r.questionService, r.contextManager, r.logger)
	rpc.RegisterQuestionsServer(server, questionHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	hs := health.NewServer()
	hs.SetServingStatus(rpc.ProfilesServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(rpc.QuestionsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)
}
