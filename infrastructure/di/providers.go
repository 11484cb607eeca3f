package di

import (
	"context"
	"fmt"

	"insightmap-backend/application/commands/bus"
	commandhandlers "insightmap-backend/application/commands/handlers"
	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	querybus "insightmap-backend/application/queries/bus"
	queryhandlers "insightmap-backend/application/queries/handlers"
	"insightmap-backend/application/services"
	domainconfig "insightmap-backend/domain/config"
	"insightmap-backend/infrastructure/config"
	"insightmap-backend/infrastructure/messaging/eventbridge"
	"insightmap-backend/infrastructure/persistence/dynamodb"
	"insightmap-backend/infrastructure/realtime/redisstate"
	"insightmap-backend/infrastructure/realtime/websocket"
	"insightmap-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Analytics results are derived data; a short cache keeps repeated
// dashboard polls from recomputing clusters on every request.
const analyticsCacheTTLSeconds = 30

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideDomainConfig loads the domain tunables for the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideAPIGatewayClient creates the management client for pushing
// frames to WebSocket connections. Returns nil when no endpoint is
// configured; the notifier degrades to debug logging.
func ProvideAPIGatewayClient(awsCfg aws.Config, cfg *config.Config) *awsapigw.Client {
	if cfg.WebSocketEndpoint == "" {
		return nil
	}
	return awsapigw.NewFromConfig(awsCfg, func(o *awsapigw.Options) {
		o.BaseEndpoint = aws.String(cfg.WebSocketEndpoint)
	})
}

// ProvideRedisClient creates the Redis client backing presence and
// typing state
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("InsightMap/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideMapRepository creates the map repository
func ProvideMapRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MapRepository {
	return dynamodb.NewMapRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideConnectionRepository creates the connection repository
func ProvideConnectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionRepository {
	return dynamodb.NewConnectionRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideInsightRepository creates the insight repository
func ProvideInsightRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.InsightRepository {
	return dynamodb.NewInsightRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideProjectRepository creates the project membership reader
func ProvideProjectRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProjectRepository {
	return dynamodb.NewProjectRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideActivityRepository creates the activity log repository
func ProvideActivityRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ActivityRepository {
	return dynamodb.NewActivityRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideNotificationRepository creates the notification repository
func ProvideNotificationRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NotificationRepository {
	return dynamodb.NewNotificationRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCommentRepository creates the comment repository
func ProvideCommentRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CommentRepository {
	return dynamodb.NewCommentRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideVotingRepository creates the voting repository
func ProvideVotingRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.VotingRepository {
	return dynamodb.NewVotingRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideSortingRepository creates the sorting session repository
func ProvideSortingRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SortingRepository {
	return dynamodb.NewSortingRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideUnitOfWork creates the transactional writer for current-map
// flips
func ProvideUnitOfWork(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UnitOfWork {
	return dynamodb.NewUnitOfWork(client, cfg.DynamoDBTable, logger)
}

// ProvidePresenceStore creates the Redis presence store
func ProvidePresenceStore(client *redis.Client, domainCfg *domainconfig.DomainConfig, logger *zap.Logger) ports.PresenceStore {
	return redisstate.NewPresenceStore(client, domainCfg.PresenceTTL, logger)
}

// ProvideTypingStore creates the Redis typing store
func ProvideTypingStore(client *redis.Client, logger *zap.Logger) ports.TypingStore {
	return redisstate.NewTypingStore(client, logger)
}

// ProvideNotifier creates the WebSocket notifier
func ProvideNotifier(apiClient *awsapigw.Client, dynamoClient *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.Notifier {
	return websocket.NewNotifier(apiClient, dynamoClient, cfg.ConnectionsTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideActivityService creates the activity service
func ProvideActivityService(
	activities ports.ActivityRepository,
	notifications ports.NotificationRepository,
	projects ports.ProjectRepository,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *zap.Logger,
) *services.ActivityService {
	return services.NewActivityService(activities, notifications, projects, publisher, notifier, logger)
}

// ProvideAnalyticsService creates the analytics service
func ProvideAnalyticsService(domainCfg *domainconfig.DomainConfig) *services.AnalyticsService {
	return services.NewAnalyticsService(domainCfg)
}

// ProvideQueryCache creates the in-process query result cache
func ProvideQueryCache() ports.Cache {
	return NewQueryCache()
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// registerCommand binds one concrete command type to its typed handler
// method on the bus
func registerCommand[T bus.Command](b *bus.CommandBus, handle func(context.Context, T) error) {
	var cmdType T
	_ = b.Register(cmdType, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			typed, ok := cmd.(T)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return handle(ctx, typed)
		},
	})
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	maps ports.MapRepository,
	connections ports.ConnectionRepository,
	insights ports.InsightRepository,
	projects ports.ProjectRepository,
	comments ports.CommentRepository,
	voting ports.VotingRepository,
	sorting ports.SortingRepository,
	notifications ports.NotificationRepository,
	presence ports.PresenceStore,
	typing ports.TypingStore,
	uow ports.UnitOfWork,
	notifier ports.Notifier,
	activity *services.ActivityService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)

	mapHandler := commandhandlers.NewMapCommandHandler(maps, projects, connections, insights, uow, activity, logger)
	registerCommand(commandBus, mapHandler.HandleCreateMap)
	registerCommand(commandBus, mapHandler.HandleAddGroup)
	registerCommand(commandBus, mapHandler.HandleMoveGroup)
	registerCommand(commandBus, mapHandler.HandleRenameGroup)
	registerCommand(commandBus, mapHandler.HandleRemoveGroup)
	registerCommand(commandBus, mapHandler.HandleAddInsightToGroup)
	registerCommand(commandBus, mapHandler.HandleRemoveInsightFromGroup)
	registerCommand(commandBus, mapHandler.HandleReorderInsights)
	registerCommand(commandBus, mapHandler.HandleReplaceAllGroups)
	registerCommand(commandBus, mapHandler.HandleCreateIndependentInsight)

	connectionHandler := commandhandlers.NewConnectionCommandHandler(connections, maps, projects, activity, logger)
	registerCommand(commandBus, connectionHandler.HandleCreateConnection)
	registerCommand(commandBus, connectionHandler.HandleUpdateConnection)
	registerCommand(commandBus, connectionHandler.HandleDeleteConnection)

	insightHandler := commandhandlers.NewInsightCommandHandler(insights, projects, logger)
	registerCommand(commandBus, insightHandler.HandleCreateManualInsight)
	registerCommand(commandBus, insightHandler.HandleDeleteInsight)

	commentHandler := commandhandlers.NewCommentCommandHandler(comments, maps, projects, activity, logger)
	registerCommand(commandBus, commentHandler.HandleAddComment)
	registerCommand(commandBus, commentHandler.HandleResolveComment)

	votingHandler := commandhandlers.NewVotingCommandHandler(voting, maps, projects, logger)
	registerCommand(commandBus, votingHandler.HandleCreateVotingSession)
	registerCommand(commandBus, votingHandler.HandleCloseVotingSession)
	registerCommand(commandBus, votingHandler.HandleCastVote)

	sortingHandler := commandhandlers.NewSortingCommandHandler(sorting, maps, projects, notifier, logger)
	registerCommand(commandBus, sortingHandler.HandleStartSortingSession)
	registerCommand(commandBus, sortingHandler.HandleUpdateSortingPhase)
	registerCommand(commandBus, sortingHandler.HandleUpdateSortingTimer)

	presenceHandler := commandhandlers.NewPresenceCommandHandler(presence, typing, notifier, logger)
	registerCommand(commandBus, presenceHandler.HandleUpsertPresence)
	registerCommand(commandBus, presenceHandler.HandleRemovePresence)
	registerCommand(commandBus, presenceHandler.HandleStartTyping)
	registerCommand(commandBus, presenceHandler.HandleStopTyping)

	notificationHandler := commandhandlers.NewNotificationCommandHandler(notifications, logger)
	registerCommand(commandBus, notificationHandler.HandleMarkRead)

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// registerQuery binds one concrete query type to its typed handler
// method on the bus
func registerQuery[T querybus.Query, R any](b *querybus.QueryBus, handle func(context.Context, T) (R, error)) {
	var queryType T
	_ = b.Register(queryType, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(T)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return handle(ctx, typed)
		},
	})
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	maps ports.MapRepository,
	connections ports.ConnectionRepository,
	insights ports.InsightRepository,
	projects ports.ProjectRepository,
	comments ports.CommentRepository,
	voting ports.VotingRepository,
	sorting ports.SortingRepository,
	activities ports.ActivityRepository,
	notifications ports.NotificationRepository,
	presence ports.PresenceStore,
	typing ports.TypingStore,
	analytics *services.AnalyticsService,
	cache ports.Cache,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	mapHandler := queryhandlers.NewMapQueryHandler(maps, projects, logger)
	registerQuery(queryBus, mapHandler.HandleGetMap)
	registerQuery(queryBus, mapHandler.HandleGetCurrentMap)
	registerQuery(queryBus, mapHandler.HandleListMaps)

	connectionHandler := queryhandlers.NewConnectionQueryHandler(connections, maps, projects, logger)
	registerQuery(queryBus, connectionHandler.HandleGetConnectionsByMap)
	registerQuery(queryBus, connectionHandler.HandleGetConnectionsByGroup)

	analyticsHandler := queryhandlers.NewAnalyticsQueryHandler(maps, connections, projects, analytics, logger)
	caching := querybus.NewCachingMiddleware(cache, analyticsCacheTTLSeconds)
	_ = queryBus.Register(queries.GetMapAnalyticsQuery{}, caching.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.GetMapAnalyticsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return analyticsHandler.Handle(ctx, typed)
		},
	}))

	insightHandler := queryhandlers.NewInsightQueryHandler(insights, projects, logger)
	registerQuery(queryBus, insightHandler.Handle)

	commentHandler := queryhandlers.NewCommentQueryHandler(comments, maps, projects, logger)
	registerQuery(queryBus, commentHandler.Handle)

	votingHandler := queryhandlers.NewVotingQueryHandler(voting, maps, projects, logger)
	registerQuery(queryBus, votingHandler.HandleGetResults)
	registerQuery(queryBus, votingHandler.HandleListSessions)

	sortingHandler := queryhandlers.NewSortingQueryHandler(sorting, maps, projects, logger)
	registerQuery(queryBus, sortingHandler.Handle)

	activityHandler := queryhandlers.NewActivityQueryHandler(activities, notifications, maps, projects, logger)
	registerQuery(queryBus, activityHandler.HandleGetActivity)
	registerQuery(queryBus, activityHandler.HandleGetNotifications)

	presenceHandler := queryhandlers.NewPresenceQueryHandler(presence, typing, logger)
	registerQuery(queryBus, presenceHandler.HandleGetPresence)
	registerQuery(queryBus, presenceHandler.HandleGetTypingUsers)

	return queryBus
}
