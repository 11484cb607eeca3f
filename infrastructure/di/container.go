package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"insightmap-backend/application/commands/bus"
	"insightmap-backend/application/ports"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/application/services"
	domainconfig "insightmap-backend/domain/config"
	"insightmap-backend/infrastructure/config"
	"insightmap-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	DomainConfig    *domainconfig.DomainConfig
	Logger          *zap.Logger
	MapRepo         ports.MapRepository
	ConnectionRepo  ports.ConnectionRepository
	InsightRepo     ports.InsightRepository
	ProjectRepo     ports.ProjectRepository
	CommentRepo     ports.CommentRepository
	VotingRepo      ports.VotingRepository
	SortingRepo     ports.SortingRepository
	ActivityRepo    ports.ActivityRepository
	NotifRepo       ports.NotificationRepository
	PresenceStore   ports.PresenceStore
	TypingStore     ports.TypingStore
	UnitOfWork      ports.UnitOfWork
	Notifier        ports.Notifier
	EventPublisher  ports.EventPublisher
	ActivityService *services.ActivityService
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
	Cache           ports.Cache
	Metrics         *observability.Metrics
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideAPIGatewayClient,
	ProvideRedisClient,
	ProvideMetrics,
	ProvideMapRepository,
	ProvideConnectionRepository,
	ProvideInsightRepository,
	ProvideProjectRepository,
	ProvideActivityRepository,
	ProvideNotificationRepository,
	ProvideCommentRepository,
	ProvideVotingRepository,
	ProvideSortingRepository,
	ProvideUnitOfWork,
	ProvidePresenceStore,
	ProvideTypingStore,
	ProvideNotifier,
	ProvideEventPublisher,
	ProvideActivityService,
	ProvideAnalyticsService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideQueryCache,
	wire.Struct(new(Container), "*"),
)
