package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"universe-backend/application/commands"
	"universe-backend/application/commands/bus"
	"universe-backend/application/ports"
	"universe-backend/application/queries"
	querybus "universe-backend/application/queries/bus"
	queryhandlers "universe-backend/application/queries/handlers"
	"universe-backend/domain/core/entities"
	"universe-backend/infrastructure/config"
	"universe-backend/infrastructure/messaging"
	"universe-backend/infrastructure/messaging/eventbridge"
	dynamorepo "universe-backend/infrastructure/persistence/dynamodb"
	"universe-backend/infrastructure/persistence/memory"
	"universe-backend/interfaces/http/rest/middleware"
	"universe-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Repositories  *Repositories
	Publisher     ports.EventPublisher
	Cache         ports.Cache
	Metrics       *observability.MetricsRecorder
	Tracer        *observability.Tracer
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	Authenticator *middleware.Authenticator
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
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

// Repositories bundles the persistence ports so the storage backend can be
// selected in one place
type Repositories struct {
	Accounts ports.AccountRepository
	Nodes    ports.NodeRepository
	Ledger   ports.LedgerRepository
}

// ProvideRepositories creates the persistence layer for the configured
// backend
func ProvideRepositories(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) *Repositories {
	if cfg.StorageBackend == "memory" {
		accounts := memory.NewAccountRepository()
		return &Repositories{
			Accounts: accounts,
			Nodes:    memory.NewNodeRepository(),
			Ledger:   memory.NewLedgerRepository(accounts),
		}
	}

	return &Repositories{
		Accounts: dynamorepo.NewAccountRepository(client, cfg.DynamoDBTable, logger),
		Nodes:    dynamorepo.NewNodeRepository(client, cfg.DynamoDBTable, logger),
		Ledger:   dynamorepo.NewLedgerRepository(client, cfg.DynamoDBTable, logger),
	}
}

// ProvideAccountRepository extracts the account port
func ProvideAccountRepository(repos *Repositories) ports.AccountRepository {
	return repos.Accounts
}

// ProvideNodeRepository extracts the node port
func ProvideNodeRepository(repos *Repositories) ports.NodeRepository {
	return repos.Nodes
}

// ProvideLedgerRepository extracts the ledger port
func ProvideLedgerRepository(repos *Repositories) ports.LedgerRepository {
	return repos.Ledger
}

// ProvideEventPublisher creates the event publisher. The memory backend gets
// a logging publisher so local runs need no broker.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.StorageBackend == "memory" {
		return messaging.NewNopPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics recorder
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.MetricsRecorder {
	return observability.NewMetricsRecorder(client, cfg.EnableMetrics, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("universe-backend")
}

// ProvideCache creates the query cache
func ProvideCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideAuthenticator creates the HTTP authentication middleware
func ProvideAuthenticator(cfg *config.Config, logger *zap.Logger) (*middleware.Authenticator, error) {
	return middleware.NewAuthenticator(cfg, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic
// interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

// Handle implements bus.CommandHandler
func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// commandObservability traces each command as a subsegment and records its
// latency and outcome
func commandObservability(metrics *observability.MetricsRecorder, tracer *observability.Tracer) bus.Middleware {
	return func(next bus.CommandHandler) bus.CommandHandler {
		return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			name := fmt.Sprintf("%T", cmd)
			start := time.Now()
			err := tracer.TraceFunction(ctx, name, func(ctx context.Context) error {
				return next.Handle(ctx, cmd)
			})
			metrics.RecordLatency(ctx, name, time.Since(start))

			switch cmd.(type) {
			case commands.TransferCoinsCommand:
				metrics.CountTransfer(ctx, string(entities.KindTransfer), err == nil)
			case commands.TipNodeCommand:
				metrics.CountTransfer(ctx, string(entities.KindTip), err == nil)
			case commands.PublishNodeCommand:
				if err == nil {
					metrics.CountNodeCreated(ctx, true)
				}
			case commands.BranchNodeCommand:
				if err == nil {
					metrics.CountNodeCreated(ctx, false)
				}
			}
			return err
		})
	}
}

// ProvideCommandBus creates a command bus with all handlers registered
func ProvideCommandBus(
	repos *Repositories,
	publisher ports.EventPublisher,
	metrics *observability.MetricsRecorder,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	instrument := func(handler bus.CommandHandler) bus.CommandHandler {
		return bus.Wrap(handler,
			bus.LoggingMiddleware(logger),
			commandObservability(metrics, tracer),
		)
	}

	registerHandler := commands.NewRegisterAccountHandler(repos.Accounts, publisher, logger)
	commandBus.Register(commands.RegisterAccountCommand{}, instrument(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			registerCmd, ok := cmd.(commands.RegisterAccountCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := registerHandler.Handle(ctx, registerCmd)
			return err
		},
	}))

	publishHandler := commands.NewPublishNodeHandler(repos.Nodes, repos.Accounts, publisher, logger)
	commandBus.Register(commands.PublishNodeCommand{}, instrument(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			publishCmd, ok := cmd.(commands.PublishNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := publishHandler.Handle(ctx, publishCmd)
			return err
		},
	}))

	branchHandler := commands.NewBranchNodeHandler(repos.Nodes, repos.Accounts, publisher, logger)
	commandBus.Register(commands.BranchNodeCommand{}, instrument(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			branchCmd, ok := cmd.(commands.BranchNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := branchHandler.Handle(ctx, branchCmd)
			return err
		},
	}))

	deleteHandler := commands.NewDeleteSubtreeHandler(repos.Nodes, publisher, logger)
	commandBus.Register(commands.DeleteSubtreeCommand{}, instrument(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeleteSubtreeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return deleteHandler.Handle(ctx, deleteCmd)
		},
	}))

	transferHandler := commands.NewTransferCoinsHandler(repos.Accounts, repos.Ledger, publisher, logger)
	commandBus.Register(commands.TransferCoinsCommand{}, instrument(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			transferCmd, ok := cmd.(commands.TransferCoinsCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := transferHandler.Handle(ctx, transferCmd)
			return err
		},
	}))

	tipHandler := commands.NewTipNodeHandler(repos.Accounts, repos.Nodes, repos.Ledger, publisher, logger)
	commandBus.Register(commands.TipNodeCommand{}, instrument(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			tipCmd, ok := cmd.(commands.TipNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := tipHandler.Handle(ctx, tipCmd)
			return err
		},
	}))

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

// Handle implements querybus.QueryHandler
func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// feedCacheTTL is short: the feed tolerates a few seconds of staleness,
// balances never go through this cache
const feedCacheTTL = 5

// ProvideQueryBus creates a query bus with all handlers registered
func ProvideQueryBus(
	repos *Repositories,
	cache ports.Cache,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	feedHandler := queryhandlers.NewGetFeedHandler(repos.Nodes, logger)
	var feedQueryHandler querybus.QueryHandler = &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			feedQuery, ok := query.(queries.GetFeedQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return feedHandler.Handle(ctx, feedQuery)
		},
	}
	feedQueryHandler = querybus.NewCachingMiddleware(cache, feedCacheTTL).Wrap(feedQueryHandler)
	queryBus.Register(queries.GetFeedQuery{}, feedQueryHandler)

	nodeHandler := queryhandlers.NewGetNodeHandler(repos.Nodes, logger)
	queryBus.Register(queries.GetNodeQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			nodeQuery, ok := query.(queries.GetNodeQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return nodeHandler.Handle(ctx, nodeQuery)
		},
	})

	accountHandler := queryhandlers.NewGetAccountHandler(repos.Accounts, repos.Nodes, logger)
	queryBus.Register(queries.GetAccountQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			accountQuery, ok := query.(queries.GetAccountQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return accountHandler.Handle(ctx, accountQuery)
		},
	})

	transactionsHandler := queryhandlers.NewListTransactionsHandler(repos.Accounts, repos.Ledger, logger)
	queryBus.Register(queries.ListTransactionsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListTransactionsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return transactionsHandler.Handle(ctx, listQuery)
		},
	})

	return queryBus
}
